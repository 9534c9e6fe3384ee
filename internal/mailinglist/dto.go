package mailinglist

// SynchronizationResponse confirms an enqueued synchronization
type SynchronizationResponse struct {
	MailingListID int64  `json:"mailing_list_id"`
	Message       string `json:"message"`
	Location      string `json:"location"`
}
