package commands

const (
	_etc = "/usr/local/etc/com.github.opensdc"
	_var = "/usr/local/var/com.github.opensdc"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/sdc-app-sheets/.google/credentials.json"
)
