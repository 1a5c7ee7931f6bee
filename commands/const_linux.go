package commands

const (
	_etc = "/usr/local/etc/halo-templates"
	_var = "/usr/local/var/halo-templates"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
