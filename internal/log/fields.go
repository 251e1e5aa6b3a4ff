package log

// Field names shared by every component.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldDate       = "date"
	FieldMonth      = "month"
	FieldMealID     = "meal_id"
	FieldMealType   = "meal_type"
	FieldCalories   = "calories"
	FieldTxID       = "transaction_id"
	FieldTxType     = "transaction_type"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldModuleID   = "module_id"
	FieldLessonID   = "lesson_id"
	FieldGenre      = "genre"
	FieldTrackID    = "track_id"
	FieldKind       = "kind"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentNutrition = "nutrition"
	ComponentFinance   = "finance"
	ComponentLearning  = "learning"
	ComponentPlaylist  = "playlist"
	ComponentAPI       = "api"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
	ComponentBackend   = "backend"
	ComponentCLI       = "cli"
)

const (
	OpCreate   = "create"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpComplete = "complete"
	OpSync     = "sync"
	OpExport   = "export"
	OpHydrate  = "hydrate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// Fields builds structured attributes for slog.
type Fields map[string]any

func NewFields() Fields {
	return make(Fields)
}

func (f Fields) WithComponent(component string) Fields {
	f[FieldComponent] = component
	return f
}

func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f Fields) WithRequest(method, path, query string) Fields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	return f
}

func (f Fields) WithResponse(status int, durationMs int64) Fields {
	f[FieldStatusCode] = status
	f[FieldDuration] = durationMs
	return f
}

// Args flattens the fields into slog key/value arguments.
func (f Fields) Args() []any {
	args := make([]any, 0, len(f)*2)
	for k, v := range f {
		args = append(args, k, v)
	}
	return args
}
