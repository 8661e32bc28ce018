// Package overload implements overload resolution: ranking a candidate
// function against call-site argument types by conversion sequence, and
// detecting ambiguity.
package overload

import (
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// Rank orders a single-argument conversion from worst (NoMatch) to best
// (ExactMatch), mirroring the standard's ordering of implicit
// conversion sequences closely enough to pick a correct best viable
// function for this core's scope (no user-defined conversion operators,
// no reference-binding tie-breaks beyond const-qualification).
type Rank int

const (
	NoMatch Rank = iota
	Ellipsis
	UserDefined
	Conversion
	Promotion
	ExactMatch
)

// Candidate is one overload-resolution participant: a function's
// parameter list plus metadata the tie-breaking rules need.
type Candidate struct {
	Name         intern.Handle
	ParamTypes   []types.Index
	IsVariadic   bool // C-style trailing `...`
	FromTemplate bool // instantiated from a function template: loses ties against a non-template candidate
	Index        int  // caller's own bookkeeping, returned in Result
}

// rankParam computes the conversion rank from argType to paramType.
func rankParam(tys *types.Registry, paramType, argType types.Index) Rank {
	if paramType == argType {
		return ExactMatch
	}
	pInfo := tys.Get(paramType)
	aInfo := tys.Get(argType)

	// Reference binding to the referent's own type, accounting for
	// reference-collapsing at the call site: binding T& to a T argument
	// (or vice versa) is exact, not a conversion.
	if pInfo.Kind == types.KindReference && pInfo.Elem == argType {
		return ExactMatch
	}
	if aInfo.Kind == types.KindReference && aInfo.Elem == paramType {
		return ExactMatch
	}

	if pInfo.Kind == types.KindBuiltin && aInfo.Kind == types.KindBuiltin {
		return rankBuiltinConversion(pInfo.Builtin, aInfo.Builtin)
	}

	if pInfo.Kind == types.KindPointer && aInfo.Kind == types.KindPointer {
		if pInfo.Elem == aInfo.Elem {
			return ExactMatch
		}
		if tys.Get(pInfo.Elem).Kind == types.KindBuiltin && tys.Get(pInfo.Elem).Builtin == types.BVoid {
			return Conversion // T* -> void*
		}
		return NoMatch
	}

	if pInfo.Kind == types.KindStruct && aInfo.Kind == types.KindStruct {
		if paramType == argType {
			return ExactMatch
		}
		return UserDefined // a converting constructor or conversion operator would be needed
	}

	return NoMatch
}

// rankBuiltinConversion distinguishes integral/floating promotion
// (same-ness-preserving widening the standard ranks above a general
// conversion) from a narrowing or cross-kind (int<->float) conversion.
func rankBuiltinConversion(param, arg types.Builtin) Rank {
	if param == arg {
		return ExactMatch
	}
	if isPromotion(arg, param) {
		return Promotion
	}
	return Conversion
}

// isPromotion reports whether converting from `from` to `to` is an
// integer/floating-point promotion (widening within the same
// signed/floating family) rather than a narrowing conversion.
func isPromotion(from, to types.Builtin) bool {
	rank := func(b types.Builtin) int {
		switch b {
		case types.BBool, types.BChar, types.BSignedChar, types.BUnsignedChar,
			types.BShort, types.BUnsignedShort:
			return 1
		case types.BInt, types.BUnsignedInt:
			return 2
		case types.BLong, types.BUnsignedLong:
			return 3
		case types.BLongLong, types.BUnsignedLongLong:
			return 4
		case types.BFloat:
			return 5
		case types.BDouble:
			return 6
		case types.BLongDouble:
			return 7
		}
		return 0
	}
	if from.IsFloating() != to.IsFloating() {
		return false
	}
	return rank(to) > rank(from) && (rank(from) == 1 || from.IsFloating())
}

// Arg is one call-site argument as seen by overload resolution.
type Arg struct {
	Type types.Index
}

// Result reports which candidate(s) won.
type Result struct {
	Best      *Candidate
	Ambiguous bool
	NoViable  bool
}

// Resolve ranks every candidate against args and returns the single best
// viable function: a candidate is
// viable if every argument has a conversion rank above NoMatch (or is
// absorbed by a trailing `...`); among viable candidates, the one whose
// worst per-argument rank is strictly better than every other
// candidate's worst rank wins. A tie among the best candidates is
// Ambiguous, except that a non-template candidate beats a template
// instantiation at an otherwise-equal rank.
func Resolve(tys *types.Registry, candidates []Candidate, args []Arg) Result {
	type scored struct {
		cand  *Candidate
		worst Rank
	}
	var viable []scored

	for i := range candidates {
		c := &candidates[i]
		if len(args) < len(c.ParamTypes) && !c.IsVariadic {
			continue
		}
		if len(args) > len(c.ParamTypes) && !c.IsVariadic {
			continue
		}
		worst := ExactMatch
		ok := true
		for j, a := range args {
			if j >= len(c.ParamTypes) {
				if !c.IsVariadic {
					ok = false
					break
				}
				if Ellipsis < worst {
					worst = Ellipsis
				}
				continue
			}
			r := rankParam(tys, c.ParamTypes[j], a.Type)
			if r == NoMatch {
				ok = false
				break
			}
			if r < worst {
				worst = r
			}
		}
		if !ok {
			continue
		}
		viable = append(viable, scored{c, worst})
	}

	if len(viable) == 0 {
		return Result{NoViable: true}
	}

	best := viable[0]
	for _, v := range viable[1:] {
		if v.worst > best.worst {
			best = v
		}
	}

	var tied []scored
	for _, v := range viable {
		if v.worst == best.worst {
			tied = append(tied, v)
		}
	}
	if len(tied) == 1 {
		return Result{Best: tied[0].cand}
	}

	// Prefer a non-template candidate among ties.
	var nonTemplate []scored
	for _, v := range tied {
		if !v.cand.FromTemplate {
			nonTemplate = append(nonTemplate, v)
		}
	}
	if len(nonTemplate) == 1 {
		return Result{Best: nonTemplate[0].cand}
	}
	return Result{Ambiguous: true}
}
