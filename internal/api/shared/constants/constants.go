package constants

const (
	MAX_CLAIM_HASHES_PER_REQUEST = 256
	MAX_RETRY_MAX_ATTEMPTS       = 10
	DEFAULT_RETRY_MAX_ATTEMPTS   = 5
	MAX_EVENTS_PAGE_SIZE         = 200
	DEFAULT_EVENTS_LIMIT         = 50
)
