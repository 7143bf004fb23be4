package buildinfo

var (
	AppName = "airbridge-backend"
	Version = "0.1.0"
	Commit  = ""
	BuiltAt = ""
)

func Info() map[string]string {
	return map[string]string{
		"app_name": AppName,
		"version":  Version,
		"commit":   Commit,
		"builtAt":  BuiltAt,
	}
}
