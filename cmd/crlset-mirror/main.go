// Command crlset-mirror keeps a local copy of the browser CRL set component up to date.
package main

import "github.com/oshokin/crlset-mirror/cmd/crlset-mirror/cmd"

func main() {
	cmd.Execute()
}
