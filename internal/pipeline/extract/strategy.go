package extract

import (
	"github.com/PuerkitoBio/goquery"

	"jobsift/pkg/models"
)

// Input is the shared parsed-page context handed to every strategy. The
// document is parsed once by the extractor and read-only after that.
type Input struct {
	Doc        *goquery.Document
	URL        string
	ParserHint string
}

// Strategy extracts whatever fields it can from a parsed page. Strategies
// never return errors: a field they cannot find is simply missing from the
// returned map.
type Strategy interface {
	Source() models.FieldSource
	Extract(in *Input) map[models.FieldName]models.ExtractedField
}
