package odoo

// Level classifies an outgoing method by the worst effect it can have.
type Level int

// Safety levels, ordered by severity.
const (
	LevelRead Level = iota
	LevelWrite
	LevelDelete
)

// String returns the canonical name of the level.
func (l Level) String() string {
	switch l {
	case LevelRead:
		return "READ"
	case LevelWrite:
		return "WRITE"
	case LevelDelete:
		return "DELETE"
	default:
		return "WRITE"
	}
}

// Operation describes one outgoing call for confirmation purposes.
// Constructed per call; never persisted.
type Operation struct {
	Name        string
	Level       Level
	Model       string
	Description string
}

// ConfirmFunc approves or rejects a non-read operation before it reaches the
// network. Returning false blocks the call with SAFETY_BLOCKED. This is a
// local, client-side interlock, not a server-side permission check.
type ConfirmFunc func(op Operation) bool

// readOnlyMethods are model methods known to have no side effects.
var readOnlyMethods = map[string]bool{
	"search":              true,
	"search_read":         true,
	"search_count":        true,
	"read":                true,
	"read_group":          true,
	"fields_get":          true,
	"name_get":            true,
	"name_search":         true,
	"default_get":         true,
	"get_metadata":        true,
	"check_access_rights": true,
}

// InferLevel classifies a method name. Unknown methods are assumed mutating,
// which is the conservative choice for arbitrary model methods.
func InferLevel(method string) Level {
	if readOnlyMethods[method] {
		return LevelRead
	}
	if method == "unlink" {
		return LevelDelete
	}
	return LevelWrite
}
