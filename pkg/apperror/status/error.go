package status

// ErrorCode is a numeric code to classify API errors in a stable way
type ErrorCode int

// Reserved ranges:
//   0-999:     client/validation errors
//   1000-8999: internal errors by domain
//   9000:      generic internal error

const (
	BadRequestBase    ErrorCode = 0
	InternalErrorBase ErrorCode = 1000
)

// Client/validation errors
const (
	RequestInvalidBody   ErrorCode = BadRequestBase + iota // 0
	RequestMissingParams                                   // 1
	UploadUnsupportedType                                  // 2
)

// Ingestion internal errors start at 1000
const (
	IngestInternal   ErrorCode = InternalErrorBase + iota // 1000
	IngestExtraction                                      // 1001
	IngestEmbedding                                       // 1002
	IngestPersist                                         // 1003
	UploadStore                                           // 1004
)

// Retrieval internal errors start at 2000
const (
	RetrieverInternal ErrorCode = InternalErrorBase + 1000 + iota // 2000
	RetrieverEmbed                                                // 2001
	RetrieverSearch                                               // 2002
)

const (
	ErrorCodeInternal ErrorCode = 9000
)

// CodedError represents an error with an associated ErrorCode
type CodedError interface {
	error
	ErrorCode() ErrorCode
}

type codedError struct {
	code ErrorCode
	err  error
}

func (e codedError) Error() string        { return e.err.Error() }
func (e codedError) Unwrap() error        { return e.err }
func (e codedError) ErrorCode() ErrorCode { return e.code }

// New creates a new CodedError with the given code and underlying error
func New(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return codedError{code: code, err: err}
}
