// Package emvmac appends a secure messaging MAC to a card command and advances the
// random counter used as diversification data.
package emvmac

import (
	"encoding/hex"
	"strings"

	"github.com/kaique-kira/xml-card-reader/pkg/cryptoutils"
	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

const minAPDULength = 10

// Input holds the hex material for one MAC computation. SessionKey wins over
// MasterKey; Rand defaults to AC.
type Input struct {
	APDU       string `json:"apdu"`
	ATC        string `json:"atc"`
	AC         string `json:"ac"`
	SessionKey string `json:"sessionKey,omitempty"`
	MasterKey  string `json:"masterKey,omitempty"`
	Rand       string `json:"rand,omitempty"`
}

// Result is the MAC-appended command and the counter to use for the next call.
type Result struct {
	APDUWithMAC string `json:"apduWithMac"`
	NextRand    string `json:"nextRand"`
}

// Generate validates in, obtains the session key and returns apdu||mac together with
// the incremented effective rand.
func Generate(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	rand := in.Rand
	if rand == "" {
		rand = in.AC
	}

	sk := in.SessionKey
	if sk == "" {
		var err error
		if sk, err = cryptoutils.DeriveSessionKeyMACHex(in.MasterKey, rand); err != nil {
			return Result{}, err
		}
	}

	mac, err := cryptoutils.RetailMACHex(sk, in.APDU+in.ATC+rand)
	if err != nil {
		return Result{}, err
	}

	next, err := cryptoutils.IncrementHex(rand)
	if err != nil {
		return Result{}, err
	}

	return Result{
		APDUWithMAC: strings.ToUpper(in.APDU) + mac,
		NextRand:    next,
	}, nil
}

func validate(in Input) error {
	if len(in.APDU) < minAPDULength || !isHex(in.APDU) {
		return emverr.Validation("apdu", "at least 5 hex bytes", in.APDU)
	}
	if len(in.ATC) != 4 || !isHex(in.ATC) {
		return emverr.Validation("atc", "2 hex bytes", in.ATC)
	}
	if len(in.AC) != 16 || !isHex(in.AC) {
		return emverr.Validation("ac", "8 hex bytes", in.AC)
	}
	if in.SessionKey != "" {
		if len(in.SessionKey) != 32 || !isHex(in.SessionKey) {
			return emverr.Validation("sessionKey", "16 hex bytes", in.SessionKey)
		}
	} else if len(in.MasterKey) != 32 || !isHex(in.MasterKey) {
		return emverr.Validation("masterKey", "16 hex bytes", in.MasterKey)
	}
	if in.Rand != "" {
		if !isHex(in.Rand) {
			return emverr.Validation("rand", "hex bytes", in.Rand)
		}
		// the MAC session key is diversified with an 8-byte rand
		if in.SessionKey == "" && len(in.Rand) != 16 {
			return emverr.Validation("rand", "8 hex bytes", in.Rand)
		}
	}

	return nil
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)

	return err == nil
}
