package validation

import (
	"encoding/base64"
	"net/url"

	validation "github.com/jellydator/validation"
)

// keeperSchemes are the gocloud.dev/secrets drivers registered by the KMS service.
var keeperSchemes = map[string]bool{
	"base64key":     true,
	"hashivault":    true,
	"awskms":        true,
	"gcpkms":        true,
	"azurekeyvault": true,
}

// KeeperURI validates a KMS keeper URI. base64key:// URIs must carry a URL-safe base64
// encoded 32-byte key.
var KeeperURI = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_keeper_uri_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}

	u, err := url.Parse(s)
	if err != nil || !keeperSchemes[u.Scheme] {
		return validation.NewError(
			"validation_keeper_uri",
			"must be a base64key://, hashivault://, awskms://, gcpkms:// or azurekeyvault:// URI",
		)
	}

	if u.Scheme == "base64key" {
		key, err := base64.URLEncoding.DecodeString(u.Host + u.Path)
		if err != nil || len(key) != 32 {
			return validation.NewError(
				"validation_keeper_uri_base64key",
				"base64key:// must hold a URL-safe base64 encoded 32-byte key",
			)
		}
	}
	return nil
})
