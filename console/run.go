// Copyright © 2024 The ELPS authors

package console

import (
	"fmt"

	"github.com/luthersystems/gleamconsole/value"
)

// MissingMain is logged by Run when there is no main function.
const MissingMain = "Main function not found. It is defined and public?"

// Run executes a program's main function inside a fresh session.  It
// clears the console, mounts the Logger, logs the value main returns and
// unmounts again.  A panic in main is logged as an error: a Gleam error
// shows its module, line, function and offending value on separate lines.
func (l *Logger) Run(main func() any) {
	l.Clear()
	l.Mount()
	defer l.Unmount()
	if main == nil {
		l.Log(MissingMain)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Debug("main panicked", "panic", fmt.Sprint(r))
			l.reportPanic(r)
		}
	}()
	l.Log(main())
}

func (l *Logger) reportPanic(r any) {
	if ge, ok := r.(*value.GleamError); ok && ge != nil {
		l.Error(
			"Error: "+ge.Message+"\n  module: "+ge.Module+"\n  line:",
			ge.Line,
			"\n  fn: "+ge.Fn+"\n  value:",
			ge.Value,
		)
		return
	}
	l.Error(value.PanicError(r))
}
