package patch

import "github.com/walteh/workerpatch/pkg/text"

const (
	// ScriptDirGuardRule guards every `if(_scriptDir)` against the identifier being undeclared
	ScriptDirGuardRule = "script-dir-guard"

	// WorkerEvalRule lets pthread workers boot from inline script content
	WorkerEvalRule = "worker-eval"
)

const (
	// jsSpace matches what a JavaScript \s matches
	jsSpace = `[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]*`

	// jsIdentifierPart is the set of runes that continue a JavaScript identifier
	jsIdentifierPart = `\p{L}\p{Nl}\p{Mn}\p{Mc}\p{Nd}\p{Pc}$\x{200C}\x{200D}`

	scriptDirPattern = `if` + jsSpace + `\(` + jsSpace + `_scriptDir` + jsSpace + `\)`

	// ScriptDirGuardText replaces the unguarded check
	ScriptDirGuardText = `if(typeof _scriptDir !== "undefined" && _scriptDir)`

	workerConstructor = `new Worker(pthreadMainJs)`

	// WorkerEvalText replaces the URL only worker construction
	WorkerEvalText = `new Worker(pthreadMainJs, { eval: true })`
)

// DefaultRules returns the fixed worker loading substitutions, in application order
func DefaultRules() []text.ReplacementRule {
	return []text.ReplacementRule{
		{
			Name:        ScriptDirGuardRule,
			FromPattern: scriptDirPattern,
			NotAfter:    jsIdentifierPart,
			ToText:      ScriptDirGuardText,
		},
		{
			Name:     WorkerEvalRule,
			FromText: workerConstructor,
			ToText:   WorkerEvalText,
		},
	}
}
