package system

import (
	"os"

	clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger. It prints to stderr with
// timestamps.
var Logger = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
	Prefix:          "mojiweb",
})

// SetLevel sets the level of Logger from its name ("debug", "info", "warn",
// "error"). Unknown names leave the level unchanged and return the parse
// error.
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	lvl, err := clog.ParseLevel(name)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}
