package types

// DraftedEmail is a generated email for one company record within a single
// run. Drafts are not persisted beyond the run except as review artifacts.
type DraftedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`

	// AttachmentRef points at the résumé file on disk. The file is
	// referenced, never copied into the draft.
	AttachmentRef string `json:"attachment_ref,omitempty"`
}
