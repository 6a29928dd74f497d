package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex subs_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	sidOnce      sync.Once
)

// initializeSID initializes the shortid generator once
func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns a short ID with a prefix.
// Total length is capped at 12 characters, e.g., `DH_XYZ12A8Q`.
// Suited for human-facing identifiers like printed card numbers.
func GenerateShortIDWithPrefix(prefix string) string {
	sidOnce.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(fmt.Sprintf("%s%s", prefix, id))
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_PLAN         = "plan"
	UUID_PREFIX_SUBSCRIPTION = "subs"
	UUID_PREFIX_PAYMENT      = "pay"
	UUID_PREFIX_ACCESS_CARD  = "card"
	UUID_PREFIX_WALLET       = "wallet"
	UUID_PREFIX_CUSTOMER     = "cust"

	// SHORT_ID_PREFIX_CARD_NUMBER prefixes printed card numbers
	SHORT_ID_PREFIX_CARD_NUMBER = "DH"
)
