package spotify

//go:generate $MOCKGEN -source=url_processor.go -destination=mocks/url_processor_mock.go

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/oshokin/daytrip/internal/constants"
	"github.com/oshokin/daytrip/internal/logger"
	"github.com/oshokin/daytrip/internal/utils"
)

// URLProcessor turns user input into catalog references.
type URLProcessor interface {
	// ParseReference resolves a URI, a share link or a bare identifier.
	ParseReference(ctx context.Context, raw string) (*Reference, error)
	// ExtractReferences resolves every input, expanding ".txt" files into their lines.
	// Duplicates are dropped, keeping the first occurrence.
	ExtractReferences(ctx context.Context, inputs []string) ([]*Reference, error)
}

// URLProcessorImpl implements the URLProcessor interface.
type URLProcessorImpl struct{}

const (
	// idLength is the length of a base62 item identifier.
	idLength = 22
	// idBits is the size of a decoded item identifier.
	idBits = 128
	// base62Alphabet is the digit order of item identifiers.
	base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// shareLinkPattern matches web links such as https://open.spotify.com/intl-de/album/<id>?si=...
//
//nolint:gochecknoglobals // Immutable, pre-compiled regex pattern used as a constant.
var shareLinkPattern = regexp.MustCompile(`spotify\.com/(?:intl-[\w-]+/)?(?P<Kind>\w+)/(?P<ID>\w+)`)

// NewURLProcessor creates and returns a new instance of URLProcessorImpl.
func NewURLProcessor() URLProcessor {
	return &URLProcessorImpl{}
}

// ParseReference resolves the input; the first matching form wins:
// a native URI, a share link, then a bare track identifier.
func (up *URLProcessorImpl) ParseReference(ctx context.Context, raw string) (*Reference, error) {
	raw = strings.TrimSpace(raw)

	var reference *Reference

	switch {
	case strings.HasPrefix(raw, uriScheme+":"):
		parsed, err := parseURI(raw)
		if err != nil {
			return nil, err
		}

		reference = parsed
	case shareLinkPattern.MatchString(raw):
		kindToken := utils.ExtractNamedGroup(shareLinkPattern, "Kind", raw)

		kind, ok := ParseKind(kindToken)
		if !ok {
			logger.Warnf(ctx, "Unknown item type %q in %s, assuming track", kindToken, raw)
		}

		reference = &Reference{Kind: kind, ID: utils.ExtractNamedGroup(shareLinkPattern, "ID", raw)}
	default:
		reference = &Reference{Kind: KindTrack, ID: raw}
	}

	if err := validateID(reference.ID); err != nil {
		return nil, err
	}

	return reference, nil
}

// ExtractReferences resolves every input, expanding ".txt" files into their lines.
func (up *URLProcessorImpl) ExtractReferences(ctx context.Context, inputs []string) ([]*Reference, error) {
	var (
		references = make([]*Reference, 0, len(inputs))
		seen       = make(map[Reference]struct{}, len(inputs))
	)

	for _, input := range inputs {
		lines := []string{input}

		if strings.HasSuffix(strings.ToLower(input), constants.ExtensionTXT) {
			fileLines, err := utils.ReadUniqueLinesFromFile(input)
			if err != nil {
				return nil, fmt.Errorf("failed to read links from %s: %w", input, err)
			}

			lines = fileLines
		}

		for _, line := range lines {
			reference, err := up.ParseReference(ctx, line)
			if err != nil {
				return nil, err
			}

			if _, ok := seen[*reference]; ok {
				continue
			}

			seen[*reference] = struct{}{}

			references = append(references, reference)
		}
	}

	return references, nil
}

// parseURI reads "spotify:<id>", "spotify:<kind>:<id>" and the legacy
// "spotify:user:<name>:playlist:<id>", where the last two segments carry the kind and the id.
func parseURI(uri string) (*Reference, error) {
	segments := strings.Split(strings.TrimPrefix(uri, uriScheme+":"), ":")
	if len(segments) == 1 {
		return &Reference{Kind: KindTrack, ID: segments[0]}, nil
	}

	kindToken := segments[len(segments)-2]

	kind, ok := ParseKind(kindToken)
	if !ok {
		return nil, fmt.Errorf("%w: unknown item type %q in %q", ErrInvalidReference, kindToken, uri)
	}

	return &Reference{Kind: kind, ID: segments[len(segments)-1]}, nil
}

// validateID checks that id is a base62 identifier that fits into 128 bits.
func validateID(id string) error {
	if len(id) != idLength {
		return fmt.Errorf("%w: %q is not a %d character identifier", ErrInvalidReference, id, idLength)
	}

	var (
		value = new(big.Int)
		base  = big.NewInt(int64(len(base62Alphabet)))
	)

	for _, r := range id {
		digit := strings.IndexRune(base62Alphabet, r)
		if digit < 0 {
			return fmt.Errorf("%w: %q contains %q, which is not a base62 digit", ErrInvalidReference, id, r)
		}

		value.Mul(value, base)
		value.Add(value, big.NewInt(int64(digit)))
	}

	if value.BitLen() > idBits {
		return fmt.Errorf("%w: %q does not fit into %d bits", ErrInvalidReference, id, idBits)
	}

	return nil
}
