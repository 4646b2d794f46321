package routehandlers

import (
	"errors"

	"github.com/insighthub/insighthub/ingestion"
	"github.com/insighthub/insighthub/webutil"
)

// paramID is the chi URL parameter carrying a task id.
const paramID = "id"

// textRequest is the body shared by the text heuristics.
type textRequest struct {
	Text   string                `json:"text"`
	Format ingestion.InputFormat `json:"format"`
}

func normalizeText(p *ingestion.ContentProcessor, req textRequest) (string, error) {
	text, err := p.Normalize(req.Format, req.Text)
	if err != nil {
		if errors.Is(err, ingestion.ErrUnsupportedFormat) {
			return "", webutil.ErrBadRequestWrap("Unsupported format; use \"text\" or \"html\"", err)
		}
		return "", err
	}
	return text, nil
}
