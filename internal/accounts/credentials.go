package accounts

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

const basicScheme = "basic"

// DecodeCredentials parses an Authorization header value of the form
// "Basic <base64(id:secret)>".
//
// Present reports whether any header value was supplied at all. A header with
// another scheme, bad base64, invalid UTF-8 or no colon decodes to an empty
// id and secret, which fails authentication further down.
func DecodeCredentials(header string) Credentials {
	header = strings.TrimSpace(header)
	if header == "" {
		return Credentials{}
	}

	creds := Credentials{Present: true}

	scheme, param, _ := strings.Cut(header, " ")
	param = strings.TrimSpace(param)
	if !strings.EqualFold(scheme, basicScheme) || param == "" {
		return creds
	}

	raw, err := base64.StdEncoding.DecodeString(param)
	if err != nil || !utf8.Valid(raw) {
		return creds
	}

	id, secret, ok := strings.Cut(string(raw), ":")
	if !ok {
		return creds
	}

	creds.ID = id
	creds.Secret = secret
	return creds
}

// EncodeCredentials builds a Basic Authorization header value
func EncodeCredentials(id, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(id+":"+secret))
}
