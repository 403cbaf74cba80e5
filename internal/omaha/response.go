package omaha

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"

	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
)

var (
	errAppNotFound         = errors.New("no app element for application id")
	errUpdateCheckNotFound = errors.New("app element has no updatecheck")
	errEmptyCodebase       = errors.New("updatecheck codebase is empty")
	errEmptyVersion        = errors.New("updatecheck version is empty")
	errBadCodebase         = errors.New("updatecheck codebase is not an absolute url")
)

// response mirrors the parts of the update-check document we read.
// Element names are matched without namespace here and checked against the
// configured namespace afterwards, since the namespace is not a constant.
type response struct {
	XMLName xml.Name
	Apps    []app `xml:"app"`
}

type app struct {
	XMLName      xml.Name
	AppID        string        `xml:"appid,attr"`
	Status       string        `xml:"status,attr"`
	UpdateChecks []updateCheck `xml:"updatecheck"`
}

type updateCheck struct {
	XMLName  xml.Name
	Status   string `xml:"status,attr"`
	Codebase string `xml:"codebase,attr"`
	Version  string `xml:"version,attr"`
}

// ParseResponse extracts the update for descriptor.AppID from an update-check document.
// All failures wrap crlset.ErrProtocolParse.
func ParseResponse(body []byte, descriptor config.Descriptor) (*Result, error) {
	var doc response

	decoder := xml.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xml: %w: %w", crlset.ErrProtocolParse, err)
	}

	target, err := findApp(doc.Apps, descriptor)
	if err != nil {
		return nil, err
	}

	check, err := findUpdateCheck(target, descriptor)
	if err != nil {
		return nil, err
	}

	if check.Codebase == "" {
		return nil, fmt.Errorf("%w: %w", crlset.ErrProtocolParse, errEmptyCodebase)
	}

	if check.Version == "" {
		return nil, fmt.Errorf("%w: %w", crlset.ErrProtocolParse, errEmptyVersion)
	}

	codebase, err := url.Parse(check.Codebase)
	if err != nil || !codebase.IsAbs() {
		return nil, fmt.Errorf("%q: %w: %w", check.Codebase, crlset.ErrProtocolParse, errBadCodebase)
	}

	version, err := crlset.ParseVersion(check.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", crlset.ErrProtocolParse, err)
	}

	return &Result{
		Version:     version,
		DownloadURL: check.Codebase,
		Status:      check.Status,
	}, nil
}

// findApp returns the first app element in the namespace with the wanted id.
func findApp(apps []app, descriptor config.Descriptor) (*app, error) {
	for i := range apps {
		if apps[i].XMLName.Space != descriptor.Namespace {
			continue
		}

		if apps[i].AppID == descriptor.AppID {
			return &apps[i], nil
		}
	}

	return nil, fmt.Errorf("%s: %w: %w", descriptor.AppID, crlset.ErrProtocolParse, errAppNotFound)
}

func findUpdateCheck(target *app, descriptor config.Descriptor) (*updateCheck, error) {
	for i := range target.UpdateChecks {
		if target.UpdateChecks[i].XMLName.Space == descriptor.Namespace {
			return &target.UpdateChecks[i], nil
		}
	}

	return nil, fmt.Errorf("%s: %w: %w", descriptor.AppID, crlset.ErrProtocolParse, errUpdateCheckNotFound)
}
