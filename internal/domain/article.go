package domain

// Article is one raw document from the source collection. Firestore documents
// are free-form, so the full field map is kept alongside the commonly used
// fields; optional fields (author, category, tags) are passed through to the
// processed record untouched.
type Article struct {
	ID     string
	Fields map[string]interface{}
}

// NewArticle attaches the store-assigned document ID to a raw field map.
func NewArticle(id string, fields map[string]interface{}) Article {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return Article{ID: id, Fields: fields}
}

// Title returns the article title, or "No title" when absent.
func (a Article) Title() string {
	if title := a.stringField("title"); title != "" {
		return title
	}
	return "No title"
}

// HasTitle reports whether a real title is present (not the placeholder).
func (a Article) HasTitle() bool {
	title := a.stringField("title")
	return title != "" && title != "No title"
}

// DatePublished returns the ISO-8601 publish date string, empty when absent.
func (a Article) DatePublished() string {
	return a.stringField("date_published")
}

// SourceURL resolves the best-effort source link: article_url wins over url.
func (a Article) SourceURL() string {
	if u := a.stringField("article_url"); u != "" {
		return u
	}
	if u := a.stringField("url"); u != "" {
		return u
	}
	return "Unknown"
}

func (a Article) stringField(name string) string {
	if v, ok := a.Fields[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// EnrichedArticle is an Article plus the model-generated fields for one run.
// TitleChinese stays empty when the original has no real title.
type EnrichedArticle struct {
	Article
	BusinessImportance Importance
	Summary            string
	SummaryChinese     string
	TitleChinese       string
}

// ProcessedRecord is the document shape written to the processed collection.
type ProcessedRecord struct {
	OriginalArticleID  string      `firestore:"original_article_id"`
	Title              string      `firestore:"title"`
	DatePublished      string      `firestore:"date_published"`
	BusinessImportance string      `firestore:"business_importance"`
	Summary            string      `firestore:"summary"`
	ProcessedAt        string      `firestore:"processed_at"`
	Source             string      `firestore:"source"`
	Rank               int         `firestore:"rank"`
	SummaryChinese     string      `firestore:"summary_chinese,omitempty"`
	TitleChinese       string      `firestore:"title_chinese,omitempty"`
	Author             string      `firestore:"author,omitempty"`
	Category           string      `firestore:"category,omitempty"`
	Tags               interface{} `firestore:"tags,omitempty"`
}

// DocID builds the composite destination key; empty means store-assigned.
func (r ProcessedRecord) DocID() string {
	if r.OriginalArticleID == "" {
		return ""
	}
	return r.OriginalArticleID + "_" + r.ProcessedAt
}

// RunStats summarizes a single pipeline execution for the history log.
type RunStats struct {
	StartedAt    string
	FinishedAt   string
	Fetched      int
	Enriched     int
	Saved        int
	UsedFallback bool
}
