package fault

// Upstream result codes, per the public data-portal OpenAPI convention.
const (
	// CodeSuccess is the success sentinel in the response header.
	CodeSuccess = "00"
	// CodeNoData marks an empty (but valid) result set.
	CodeNoData = "03"
)

// codeEntry pairs an error kind with its caller-facing message.
type codeEntry struct {
	kind    Kind
	message string
}

// codeTable is the authoritative mapping from upstream result codes.
// Every code translation lives here and nowhere else.
var codeTable = map[string]codeEntry{
	"10": {KindBadRequest, "invalid request parameter sent upstream"},
	"11": {KindBadRequest, "missing required request parameter"},
	"12": {KindUpstreamUnavailable, "upstream service is closed"},
	"20": {KindForbidden, "service access denied"},
	"22": {KindRateLimited, "upstream request quota exceeded"},
	"30": {KindUnauthorized, "service key is not registered"},
	"31": {KindForbidden, "service key access period has expired"},
	"32": {KindForbidden, "requesting address is not registered"},
}

// ClassifyCode maps an upstream header result code to a classified error.
// Unrecognized codes map to a generic upstream failure. CodeSuccess and
// CodeNoData are not errors and must be handled before calling this.
func ClassifyCode(code string) *Error {
	if entry, ok := codeTable[code]; ok {
		return &Error{Kind: entry.kind, Code: code, Message: entry.message}
	}
	return &Error{
		Kind:    KindUpstreamUnavailable,
		Code:    code,
		Message: "upstream reported failure code " + code,
	}
}
