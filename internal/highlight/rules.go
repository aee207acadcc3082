package highlight

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/altinukshini/hound-tui/internal/model"
)

// CompileRules compiles a repository's pattern links in order. Links whose
// pattern does not compile are left out and reported in the returned
// error; the others are still usable.
func CompileRules(links []model.PatternLink) ([]model.PatternLinkRule, error) {
	var (
		rules []model.PatternLinkRule
		errs  []error
	)
	for _, l := range links {
		re, err := regexp.Compile(l.Pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("pattern link %q: %w", l.Pattern, err))
			continue
		}
		rules = append(rules, model.PatternLinkRule{Pattern: re, Template: Template(l.Link, re)})
	}
	return rules, errors.Join(errs...)
}

// Template converts a link template written with JavaScript replacement
// tokens ($&, $1, $<name>) into the form regexp.Expand understands. A
// reference to a group re does not have stays literal text, the same as
// String.prototype.replace.
func Template(link string, re *regexp.Regexp) string {
	groups := re.NumSubexp()
	named := false
	for _, n := range re.SubexpNames() {
		if n != "" {
			named = true
			break
		}
	}

	var b strings.Builder
	for i := 0; i < len(link); i++ {
		c := link[i]
		if c != '$' || i+1 == len(link) {
			b.WriteByte(c)
			continue
		}
		next := link[i+1]
		switch {
		case next == '&':
			b.WriteString("${0}")
			i++
		case next == '$':
			b.WriteString("$$")
			i++
		case isDigit(next):
			n := int(next - '0')
			width := 1
			if i+2 < len(link) && isDigit(link[i+2]) {
				if nn := n*10 + int(link[i+2]-'0'); nn >= 1 && nn <= groups {
					n, width = nn, 2
				}
			}
			if n < 1 || n > groups {
				b.WriteString("$$")
				continue
			}
			b.WriteString("${" + strconv.Itoa(n) + "}")
			i += width
		case next == '<' && named:
			if end := strings.IndexByte(link[i:], '>'); end > 0 {
				b.WriteString("${" + link[i+2:i+end] + "}")
				i += end
				continue
			}
			b.WriteString("$$")
		case next == '{':
			b.WriteByte(c)
		default:
			b.WriteString("$$")
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
