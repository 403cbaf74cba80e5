package omaha

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
)

const realResponse = `<?xml version="1.0" encoding="UTF-8"?>
<gupdate xmlns="http://www.google.com/update2/response" protocol="2.0" server="prod">
  <daystart elapsed_days="6862" elapsed_seconds="37502"/>
  <app appid="aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" cohort="1:" status="ok">
    <updatecheck codebase="https://example.invalid/other.crx3" status="ok" version="1.0"/>
  </app>
  <app appid="hfnkpimlhhgieaddgfemjhofmfblmnib" cohort="1:jcl:" cohortname="Auto" status="ok">
    <updatecheck codebase="https://www.google.com/dl/release2/chrome_component/crl-set-123.crx3"
      fp="1.abc" hash_sha256="abc" protected="0" size="39142" status="ok" version="9353"/>
  </app>
</gupdate>`

// TestParseResponse_Real parses a document shaped like a production response.
func TestParseResponse_Real(t *testing.T) {
	t.Parallel()

	result, err := ParseResponse([]byte(realResponse), config.DefaultDescriptor())
	require.NoError(t, err)
	require.Equal(t, "9353", result.Version.String())
	require.Equal(t, "https://www.google.com/dl/release2/chrome_component/crl-set-123.crx3", result.DownloadURL)
	require.Equal(t, "ok", result.Status)
}

// TestParseResponse_Errors checks that every malformed document is a ProtocolParseError.
func TestParseResponse_Errors(t *testing.T) {
	t.Parallel()

	ns := config.DefaultNamespace
	id := config.DefaultAppID

	cases := map[string]string{
		"not xml":       "this is not xml",
		"empty":         "",
		"truncated":     `<gupdate xmlns="` + ns + `"><app appid="` + id + `">`,
		"no app":        `<gupdate xmlns="` + ns + `"></gupdate>`,
		"other app":     `<gupdate xmlns="` + ns + `"><app appid="other"><updatecheck codebase="https://x/y" version="1"/></app></gupdate>`,
		"wrong ns":      `<gupdate xmlns="urn:other"><app appid="` + id + `"><updatecheck codebase="https://x/y" version="1"/></app></gupdate>`,
		"no check":      `<gupdate xmlns="` + ns + `"><app appid="` + id + `" status="error-unknownApplication"/></gupdate>`,
		"no codebase":   `<gupdate xmlns="` + ns + `"><app appid="` + id + `"><updatecheck version="1"/></app></gupdate>`,
		"no version":    `<gupdate xmlns="` + ns + `"><app appid="` + id + `"><updatecheck codebase="https://x/y"/></app></gupdate>`,
		"bad version":   `<gupdate xmlns="` + ns + `"><app appid="` + id + `"><updatecheck codebase="https://x/y" version="1.x"/></app></gupdate>`,
		"path version":  `<gupdate xmlns="` + ns + `"><app appid="` + id + `"><updatecheck codebase="https://x/y" version="../1"/></app></gupdate>`,
		"relative code": `<gupdate xmlns="` + ns + `"><app appid="` + id + `"><updatecheck codebase="/y.crx" version="1"/></app></gupdate>`,
	}

	for name, body := range cases {
		_, err := ParseResponse([]byte(body), config.DefaultDescriptor())
		require.ErrorIs(t, err, crlset.ErrProtocolParse, name)
	}
}

// TestParseResponse_CustomDescriptor verifies the namespace and app id come from the descriptor.
func TestParseResponse_CustomDescriptor(t *testing.T) {
	t.Parallel()

	descriptor := config.DefaultDescriptor()
	descriptor.AppID = "testapp"
	descriptor.Namespace = "urn:test"

	body := fmt.Sprintf(
		`<response xmlns="%s"><app appid="%s"><updatecheck codebase="http://127.0.0.1/p" version="5.1"/></app></response>`,
		descriptor.Namespace, descriptor.AppID,
	)

	result, err := ParseResponse([]byte(body), descriptor)
	require.NoError(t, err)
	require.Equal(t, "5.1", result.Version.String())

	_, err = ParseResponse([]byte(body), config.DefaultDescriptor())
	require.ErrorIs(t, err, crlset.ErrProtocolParse)
}
