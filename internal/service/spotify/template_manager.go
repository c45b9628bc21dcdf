package spotify

//go:generate $MOCKGEN -source=template_manager.go -destination=mocks/template_manager_mock.go

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/utils"
)

// TemplateManager builds legal file names for downloaded items.
type TemplateManager interface {
	// TrackFilename fills the template with metadata and appends the extension.
	// The result never contains characters that are illegal in a path.
	TrackFilename(template string, metadata *TrackMetadata, index int, extension string) string
	// FallbackFilename names an item whose metadata is unavailable after its identifier.
	FallbackFilename(id, extension string) string
	// FrozenFilename names an item with a fixed name, bypassing the template.
	FrozenFilename(name, extension string) string
	// CollectionFolderName names the folder of an album, playlist or show.
	CollectionFolderName(title string) string
}

// TemplateManagerImpl implements the TemplateManager interface.
type TemplateManagerImpl struct {
	// titleFilter removes every match from the filled name, nil to keep names as they are.
	titleFilter *regexp.Regexp
	// removeFeatureTags strips a "(feat. X)" suffix from titles.
	removeFeatureTags bool
}

// Template placeholders.
const (
	placeholderPrimaryArtist = "%a"
	placeholderAllArtists    = "%A"
	placeholderTitle         = "%t"
	placeholderIndex         = "%n"
)

// artistsSeparator joins artist names for %A.
const artistsSeparator = ", "

// featureTagPattern matches a trailing "(feat. X)", "(ft. X)" or "(with X)" group with the
// space before it. X may hold one level of parentheses.
//
//nolint:gochecknoglobals // Immutable, pre-compiled regex pattern used as a constant.
var featureTagPattern = regexp.MustCompile(`(?i) ?\((?:feat\.?|ft\.?|with) (?:[^()]|\([^()]*\))+\)\s*$`)

// NewTemplateManager creates a template manager using the cleanup settings of cfg.
func NewTemplateManager(cfg *config.Config) TemplateManager {
	return &TemplateManagerImpl{
		titleFilter:       cfg.ParsedTitleFilter,
		removeFeatureTags: cfg.RemoveFeatureTags,
	}
}

// TrackFilename fills the template with metadata and appends the extension.
// The steps run in a fixed order: feature tag strip on the raw title, placeholder
// substitution, cleanup filter, legalization, extension.
func (tm *TemplateManagerImpl) TrackFilename(
	template string,
	metadata *TrackMetadata,
	index int,
	extension string,
) string {
	if metadata == nil {
		metadata = new(TrackMetadata)
	}

	title := metadata.Title
	if tm.removeFeatureTags {
		title = removeFeatureTag(title)
	}

	// A single pass, so substituted values are never expanded again.
	name := strings.NewReplacer(
		placeholderPrimaryArtist, metadata.PrimaryArtist(),
		placeholderAllArtists, strings.Join(metadata.Artists, artistsSeparator),
		placeholderTitle, title,
		placeholderIndex, fmt.Sprintf("%02d", max(index, 0)),
	).Replace(template)

	if tm.titleFilter != nil {
		name = tm.titleFilter.ReplaceAllString(name, "")
	}

	return appendExtension(utils.LegalizeName(name), template, extension)
}

// FallbackFilename names an item whose metadata is unavailable after its identifier.
func (tm *TemplateManagerImpl) FallbackFilename(id, extension string) string {
	return utils.LegalizeName(id + "." + extension)
}

// FrozenFilename names an item with a fixed name, bypassing the template.
func (tm *TemplateManagerImpl) FrozenFilename(name, extension string) string {
	return appendExtension(utils.LegalizeName(name), name, extension)
}

// CollectionFolderName names the folder of an album, playlist or show.
func (tm *TemplateManagerImpl) CollectionFolderName(title string) string {
	return utils.LegalizeName(strings.TrimSpace(title))
}

// appendExtension adds ".<extension>" unless the source already ends with exactly that suffix.
func appendExtension(name, source, extension string) string {
	suffix := "." + extension
	if extension == "" || strings.HasSuffix(source, suffix) {
		return name
	}

	return name + suffix
}

// removeFeatureTag strips the trailing feature tag group from a title.
func removeFeatureTag(title string) string {
	location := featureTagPattern.FindStringIndex(title)
	if location == nil {
		return title
	}

	return title[:location[0]] + title[location[1]:]
}
