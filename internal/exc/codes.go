package exc

const (
	CodeUnknownFatal                  = "I0000"
	CodeFileNotFound                  = "I0001"
	CodeUnsuportedFileSystemOperation = "I0002"
	CodePermissionDenied              = "I0003"
	CodeInvalidCharacter              = "I0004"
	CodeUnexpectedEOF                 = "I0005"
	CodeUnexpectedToken               = "I0006"
	CodeInvalidLiteral                = "I0007"
	CodeTrailingInput                 = "I0008"
	CodeUnsupportedFileFormat         = "I0009"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
