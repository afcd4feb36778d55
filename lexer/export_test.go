package lexer

// PanicOnStuck overrides configuration flag panic-on-scanner-stuck.
func PanicOnStuck(flag bool) (restore func()) {
	prev := panicOnStuck
	panicOnStuck = func() bool { return flag }
	return func() { panicOnStuck = prev }
}
