package expr

import "strings"

// Translate lowers an expression to its scalar C form, the body of the
// fn(x,y,z) routine the native backend compiles. The rewrites are pure
// text transformations, applied in a fixed order:
//
//  1. the free variables X, Y, Z become the scalar parameters x, y, z;
//  2. the math. qualifier is stripped, since C's math library is
//     unqualified;
//  3. pi becomes M_PI;
//  4. a ** b becomes pow(a,b), rewriting the rightmost operator first
//     until none remain, which resolves chains right-associatively;
//  5. the element-wise " & ", " | " and ~ become the short-circuit
//     && , || and !.
//
// Translate is idempotent: running it on already-translated text is a
// no-op. It does not re-derive precedence; expressions are expected to
// parenthesize explicitly.
func Translate(src string) string {
	s := replaceWord(src, "X", "x")
	s = replaceWord(s, "Y", "y")
	s = replaceWord(s, "Z", "z")
	s = stripQualifier(s, "math.")
	s = replaceWord(s, "pi", "M_PI")
	s = rewritePow(s)
	s = strings.ReplaceAll(s, " & ", " && ")
	s = strings.ReplaceAll(s, " | ", " || ")
	s = strings.ReplaceAll(s, "~", "!")
	return s
}

// replaceWord replaces whole-word occurrences of old, leaving
// occurrences embedded in longer identifiers or numbers alone.
func replaceWord(s, old, new string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		j := strings.Index(s[i:], old)
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		j += i
		after := j + len(old)
		lonely := (j == 0 || !isIdentPart(s[j-1])) && (after >= len(s) || !isIdentPart(s[after]))
		b.WriteString(s[i:j])
		if lonely {
			b.WriteString(new)
		} else {
			b.WriteString(old)
		}
		i = after
	}
	return b.String()
}

// stripQualifier removes prefix wherever it starts an identifier, so
// math.sqrt becomes sqrt but mymath.sqrt is left alone.
func stripQualifier(s, prefix string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		j := strings.Index(s[i:], prefix)
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		j += i
		b.WriteString(s[i:j])
		if j > 0 && isIdentPart(s[j-1]) {
			b.WriteString(prefix)
		}
		i = j + len(prefix)
	}
	return b.String()
}

// rewritePow replaces power operators with pow() calls, innermost on
// the right first. Operands are single primaries (a number, a name, a
// call or a parenthesized group, with optional unary prefixes on the
// exponent); anything larger must already be parenthesized, matching
// how the operator was used in the array form.
func rewritePow(s string) string {
	for {
		op := strings.LastIndex(s, "**")
		if op < 0 {
			return s
		}
		ls, le := powLeftOperand(s, op)
		rs, re := powRightOperand(s, op+2)
		s = s[:ls] + "pow(" + s[ls:le] + "," + s[rs:re] + ")" + s[re:]
	}
}

// powLeftOperand finds the primary ending just left of the ** at op.
func powLeftOperand(s string, op int) (start, end int) {
	end = op
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	start = end
	if start > 0 && s[start-1] == ')' {
		depth := 0
		i := start - 1
		for i >= 0 {
			switch s[i] {
			case ')':
				depth++
			case '(':
				depth--
			}
			if depth == 0 {
				break
			}
			i--
		}
		if i < 0 {
			i = 0
		}
		start = i
	}
	// Take any identifier/number immediately before, which also pulls
	// in the callee of a call like sqrt(x)**2.
	for start > 0 && (isIdentPart(s[start-1]) || s[start-1] == '.') {
		start--
	}
	return start, end
}

// powRightOperand finds the primary starting just right of the **.
func powRightOperand(s string, from int) (start, end int) {
	start = from
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end = start
	for end < len(s) && (s[end] == '-' || s[end] == '+' || s[end] == '~' || s[end] == '!') {
		end++
	}
	if end < len(s) && s[end] == '(' {
		return start, skipGroup(s, end)
	}
	for end < len(s) && (isIdentPart(s[end]) || s[end] == '.') {
		end++
	}
	if end < len(s) && s[end] == '(' {
		end = skipGroup(s, end)
	}
	return start, end
}

// skipGroup returns the index just past the parenthesized group opening
// at i (or the end of the string if unbalanced).
func skipGroup(s string, i int) int {
	depth := 0
	for i < len(s) {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		i++
		if depth == 0 {
			break
		}
	}
	return i
}
