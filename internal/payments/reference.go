package payments

import (
	"fmt"
	"strconv"
	"strings"

	"pdfstore-bot/internal/catalog"
)

// The external reference is the only state tying a payment back to a
// buyer and a product: "chatID:productID", attached to the outbound
// charge and echoed back by the provider on confirmation.

func EncodeReference(chatID int64, productID string) string {
	return strconv.FormatInt(chatID, 10) + catalog.Delimiter + productID
}

// ParseReference splits on the first delimiter occurrence, so a product
// id is free to contain further delimiters on the wire even though the
// catalog loader forbids it.
func ParseReference(ref string) (requesterID, productID string, err error) {
	before, after, found := strings.Cut(ref, catalog.Delimiter)
	if !found {
		return "", "", fmt.Errorf("external reference %q has no delimiter", ref)
	}
	if before == "" || after == "" {
		return "", "", fmt.Errorf("external reference %q has an empty half", ref)
	}
	return before, after, nil
}
