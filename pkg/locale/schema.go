package locale

import "slices"

// Well-known keys of the bootstrap-fileinput locale schema.
const (
	KeySizeUnits    = "sizeUnits"
	KeyBitRateUnits = "bitRateUnits"

	GroupFileTypes          = "msgFileTypes"
	GroupAjaxOperations     = "ajaxOperations"
	GroupFileActions        = "fileActionSettings"
	GroupPreviewZoomButtons = "previewZoomButtonTitles"
)

// DefaultUnitCount is the number of magnitudes (B through YB) every unit list covers.
const DefaultUnitCount = 9

// MessageSpec declares a scalar message and the placeholder tokens its
// template may reference.
type MessageSpec struct {
	Key          string
	Placeholders []string
}

// GroupSpec declares a nested grouping and its fixed sub-keys.
type GroupSpec struct {
	Name string
	Keys []string
}

// Schema is the canonical key set a bundle is checked against.
// Its declaration order is also the serialization order.
// A Schema is immutable after construction and safe for concurrent use.
type Schema struct {
	units     []string
	messages  []MessageSpec
	groups    []GroupSpec
	unitCount int
	markup    []string

	messageIdx map[string]int
	groupIdx   map[string]int
}

// SchemaOption configures a Schema during construction.
type SchemaOption func(*Schema)

// WithUnitCount sets the expected length of unit lists.
// Zero disables the length check.
func WithUnitCount(n int) SchemaOption {
	return func(s *Schema) {
		if n >= 0 {
			s.unitCount = n
		}
	}
}

// WithAllowedMarkup sets the HTML elements templates may embed.
func WithAllowedMarkup(tags ...string) SchemaOption {
	return func(s *Schema) {
		s.markup = slices.Clone(tags)
	}
}

// NewSchema builds a Schema from unit keys, message specs and group specs.
func NewSchema(units []string, messages []MessageSpec, groups []GroupSpec, opts ...SchemaOption) *Schema {
	s := &Schema{
		units:      slices.Clone(units),
		messages:   slices.Clone(messages),
		groups:     slices.Clone(groups),
		unitCount:  DefaultUnitCount,
		markup:     []string{"b", "br", "pre"},
		messageIdx: make(map[string]int, len(messages)),
		groupIdx:   make(map[string]int, len(groups)),
	}

	for _, opt := range opts {
		opt(s)
	}

	for i, m := range s.messages {
		s.messageIdx[m.Key] = i
	}
	for i, g := range s.groups {
		s.groupIdx[g.Name] = i
	}

	return s
}

// Units returns the unit list keys in order.
func (s *Schema) Units() []string { return s.units }

// Messages returns the message specs in order.
func (s *Schema) Messages() []MessageSpec { return s.messages }

// Groups returns the group specs in order.
func (s *Schema) Groups() []GroupSpec { return s.groups }

// UnitCount returns the expected unit list length (0 = unchecked).
func (s *Schema) UnitCount() int { return s.unitCount }

// AllowedMarkup returns the HTML element names templates may contain.
func (s *Schema) AllowedMarkup() []string { return s.markup }

// Message returns the declaration of a message key.
func (s *Schema) Message(key string) (MessageSpec, bool) {
	i, ok := s.messageIdx[key]
	if !ok {
		return MessageSpec{}, false
	}
	return s.messages[i], true
}

// Group returns the declaration of a group.
func (s *Schema) Group(name string) (GroupSpec, bool) {
	i, ok := s.groupIdx[name]
	if !ok {
		return GroupSpec{}, false
	}
	return s.groups[i], true
}

// IsUnit reports whether key names a unit list.
func (s *Schema) IsUnit(key string) bool {
	return slices.Contains(s.units, key)
}

func msg(key string, placeholders ...string) MessageSpec {
	return MessageSpec{Key: key, Placeholders: placeholders}
}

var defaultSchema = NewSchema(
	[]string{KeySizeUnits, KeyBitRateUnits},
	[]MessageSpec{
		msg("fileSingle"),
		msg("filePlural"),
		msg("browseLabel"),
		msg("removeLabel"),
		msg("removeTitle"),
		msg("cancelLabel"),
		msg("cancelTitle"),
		msg("pauseLabel"),
		msg("pauseTitle"),
		msg("uploadLabel"),
		msg("uploadTitle"),
		msg("msgNo"),
		msg("msgNoFilesSelected"),
		msg("msgPaused"),
		msg("msgCancelled"),
		msg("msgPlaceholder", "files"),
		msg("msgZoomModalHeading"),
		msg("msgFileRequired"),
		msg("msgSizeTooSmall", "name", "size", "minSize"),
		msg("msgSizeTooLarge", "name", "size", "maxSize"),
		msg("msgFilesTooLess", "n", "files"),
		msg("msgFilesTooMany", "n", "m"),
		msg("msgTotalFilesTooMany", "n", "m"),
		msg("msgFileNotFound", "name"),
		msg("msgFileSecured", "name"),
		msg("msgFileNotReadable", "name"),
		msg("msgFilePreviewAborted", "name"),
		msg("msgFilePreviewError", "name"),
		msg("msgInvalidFileName", "name"),
		msg("msgInvalidFileType", "name", "types"),
		msg("msgInvalidFileExtension", "name", "extensions"),
		msg("msgUploadAborted"),
		msg("msgUploadThreshold"),
		msg("msgUploadBegin"),
		msg("msgUploadEnd"),
		msg("msgUploadResume"),
		msg("msgUploadEmpty"),
		msg("msgUploadError"),
		msg("msgDeleteError"),
		msg("msgProgressError"),
		msg("msgValidationError"),
		msg("msgLoading", "index", "files"),
		msg("msgProgress", "index", "files", "name", "percent"),
		msg("msgSelected", "n", "files"),
		msg("msgProcessing"),
		msg("msgFoldersNotAllowed", "n"),
		msg("msgImageWidthSmall", "name", "size", "dimension"),
		msg("msgImageHeightSmall", "name", "size", "dimension"),
		msg("msgImageWidthLarge", "name", "size", "dimension"),
		msg("msgImageHeightLarge", "name", "size", "dimension"),
		msg("msgImageResizeError"),
		msg("msgImageResizeException", "errors"),
		msg("msgAjaxError", "operation"),
		msg("msgAjaxProgressError", "operation"),
		msg("msgDuplicateFile", "name", "size"),
		msg("msgResumableUploadRetriesExceeded", "max", "file", "error"),
		msg("msgPendingTime", "time"),
		msg("msgCalculatingTime"),
		msg("dropZoneTitle"),
		msg("dropZoneClickTitle", "files"),
	},
	[]GroupSpec{
		{
			Name: GroupFileTypes,
			Keys: []string{"image", "html", "text", "video", "audio", "flash", "pdf", "object"},
		},
		{
			Name: GroupAjaxOperations,
			Keys: []string{"deleteThumb", "uploadThumb", "uploadBatch", "uploadExtra"},
		},
		{
			Name: GroupFileActions,
			Keys: []string{
				"removeTitle", "uploadTitle", "uploadRetryTitle", "downloadTitle",
				"rotateTitle", "zoomTitle", "dragTitle", "indicatorNewTitle",
				"indicatorSuccessTitle", "indicatorErrorTitle", "indicatorPausedTitle",
				"indicatorLoadingTitle",
			},
		},
		{
			Name: GroupPreviewZoomButtons,
			Keys: []string{"prev", "next", "rotate", "toggleheader", "fullscreen", "borderless", "close"},
		},
	},
)

// DefaultSchema returns the bootstrap-fileinput locale schema.
func DefaultSchema() *Schema {
	return defaultSchema
}
