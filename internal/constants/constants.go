package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.notehub/`
	EnvPrefix      = `NOTEHUB`
	DraftFile      = `draft.yaml`
	LogFile        = `notehub.log`
)
