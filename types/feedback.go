package types

// FeedbackHeaders is the fixed column layout of the feedback sheet.
// Row 1 of the sheet must match this exactly; ensure it via the
// feedback service's header bootstrap before accepting submissions.
var FeedbackHeaders = []string{
	"Title", "Description", "Photos", "User ID", "Email ID", "Date", "TimeStamp",
}

// Attachment is one uploaded file accompanying a feedback submission.
type Attachment struct {
	Filename string
	Data     []byte
}

// SubmissionInput is the validated-enough input handed to the feedback
// pipeline. Date and Timestamp are trusted verbatim when supplied.
type SubmissionInput struct {
	Title       string
	Description string
	UserID      string
	EmailID     string
	Date        string
	Timestamp   string
	Attachments []Attachment
}

// FeedbackRecord is one row of the feedback sheet. Photos holds the
// successfully uploaded URLs joined with ", ".
type FeedbackRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Photos      string `json:"photos"`
	UserID      string `json:"userId"`
	EmailID     string `json:"emailId"`
	Date        string `json:"date"`
	TimeStamp   string `json:"timestamp"`
}

// Row serializes the record in FeedbackHeaders column order.
func (r *FeedbackRecord) Row() []string {
	return []string{r.Title, r.Description, r.Photos, r.UserID, r.EmailID, r.Date, r.TimeStamp}
}

// UploadResult describes one successfully uploaded attachment.
type UploadResult struct {
	URL          string `json:"url"`
	StorageKey   string `json:"storageKey"`
	OriginalName string `json:"originalName"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ByteSize     int64  `json:"byteSize"`
}

// SubmissionResult is the success payload for a feedback submission.
// PhotosUploaded < PhotosAttempted signals partial upload failure;
// there is deliberately no per-file failure list.
type SubmissionResult struct {
	SubmissionID    string         `json:"submissionId"`
	PhotosAttempted int            `json:"photosAttempted"`
	PhotosUploaded  int            `json:"photosUploaded"`
	PhotoURLs       []string       `json:"photoUrls"`
	PhotoDetails    []UploadResult `json:"photoDetails"`
}
