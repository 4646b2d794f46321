package ingestion

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// InputFormat names how the text fields of heuristic requests are encoded.
type InputFormat string

const (
	FormatText InputFormat = "text"
	FormatHTML InputFormat = "html"
)

var ErrUnsupportedFormat = errors.New("unsupported input format")

var (
	fullDocumentPattern = regexp.MustCompile(`(?i)<(html|body)[\s>]`)
	placeholderBaseURL  = &url.URL{Scheme: "http", Host: "localhost"}
)

// Holds the results of content processing.
type ProcessedContent struct {
	MainText       string // Plain text with tags removed and entities decoded.
	ExtractedTitle string // Title found by Readability, empty for fragments.
}

// Handles HTML cleaning and main content extraction.
type ContentProcessor struct {
	htmlPolicy      *bluemonday.Policy
	stripTagsPolicy *bluemonday.Policy
	logger          *zap.Logger
}

func NewContentProcessor(logger *zap.Logger) *ContentProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	strip := bluemonday.StripTagsPolicy()
	// Without spaces "<p>One.</p><p>Two.</p>" would collapse into a single sentence.
	strip.AddSpaceWhenStrippingTag(true)

	return &ContentProcessor{
		htmlPolicy:      bluemonday.UGCPolicy(),
		stripTagsPolicy: strip,
		logger:          logger,
	}
}

// Normalize converts the text of a request into plain text according to format.
// An empty format means plain text.
func (cp *ContentProcessor) Normalize(format InputFormat, text string) (string, error) {
	switch InputFormat(strings.ToLower(string(format))) {
	case "", FormatText:
		return text, nil
	case FormatHTML:
		processed, err := cp.Process(text)
		if err != nil {
			return "", err
		}
		return processed.MainText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Process reduces rawHTML to plain text. Whole pages go through Readability
// first so navigation and boilerplate are dropped; fragments are only
// sanitized and stripped.
func (cp *ContentProcessor) Process(rawHTML string) (*ProcessedContent, error) {
	result := &ProcessedContent{}
	if strings.TrimSpace(rawHTML) == "" {
		return result, nil
	}

	cleanedHTML := cp.htmlPolicy.Sanitize(rawHTML)
	mainHTML := cleanedHTML

	if fullDocumentPattern.MatchString(rawHTML) {
		article, err := readability.FromReader(strings.NewReader(rawHTML), placeholderBaseURL)
		switch {
		case err != nil:
			cp.logger.Warn("Readability extraction failed; using sanitized HTML", zap.Error(err))
		case strings.TrimSpace(article.Content) == "":
			cp.logger.Warn("Readability returned empty content; using sanitized HTML")
		default:
			mainHTML = article.Content
			result.ExtractedTitle = article.Title
		}
	}

	result.MainText = collapseWhitespace(html.UnescapeString(cp.stripTagsPolicy.Sanitize(mainHTML)))
	return result, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
