package commands

const (
	_etc = "/usr/local/etc/sdc-app-sheets"
	_var = "/usr/local/var/sdc-app-sheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
