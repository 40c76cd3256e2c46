// Package errors provides coded, actionable errors for the pagewire CLI and
// server startup.
//
// A PagewireError carries a code from the registry (E1xx), a one-line
// message, an optional explanation and a hint. Configuration errors may
// point at the offending line of the project file:
//
//	err := errors.New("E101").
//	    WithLocation("pagewire.yaml", 4, 10).
//	    WithSuggestion(`adapter must be one of "react", "vue"`)
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR E101: Invalid configuration file
//	//
//	//   pagewire.yaml:4:10
//	//
//	//        3 │ name: demo
//	//   →    4 │ adapter: svelte
//	//          │          ^
//	//
//	//   Hint: adapter must be one of "react", "vue"
//
// Codes are grouped by category: E100-E109 configuration, E110-E119 assets,
// E120-E129 adapters, E130-E139 serving.
package errors
