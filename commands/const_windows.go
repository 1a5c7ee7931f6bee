package commands

const (
	_etc = `C:\ProgramData\halo-templates`
	_var = `C:\ProgramData\halo-templates\var`

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + `\.google\credentials.json`
)
