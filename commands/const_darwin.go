package commands

const (
	_etc = "/usr/local/etc/com.github.jcbmsp.halo-templates"
	_var = "/usr/local/var/com.github.jcbmsp.halo-templates"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
