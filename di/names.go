package di

// ServiceNames are the identifiers services are registered under. They are
// also the values accepted in the `services` config list.
type ServiceNames struct {
	Mongo   string
	SQL     string
	Tracing string
}

// Services holds the identifiers known to the articles binary.
var Services = ServiceNames{
	Mongo:   "mongo",
	SQL:     "sql",
	Tracing: "tracing",
}

// Infrastructure keys registered as singletons by main.
const (
	KeyConfig = "config"
	KeyLogger = "logger"
)
