package browser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/v0xg/pagestep/internal/page"
)

// Candidate is an interactive element found on a live page
type Candidate struct {
	Selector string `json:"selector"`
	Kind     string `json:"kind"` // button, link, select, checkbox, radio or the input type
	Label    string `json:"label"`
}

const scanScript = `() => {
	const out = [];
	const seen = new Set();

	function validIdent(s) {
		if (!s) return false;
		if (/^-?[0-9]/.test(s)) return false;
		return !/[.:#\[\]()>~+*\/\\]/.test(s);
	}

	function selectorOf(el) {
		if (el.id && validIdent(el.id)) return '#' + el.id;
		if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';
		if (el.className && typeof el.className === 'string') {
			const cls = el.className.trim().split(/\s+/).filter(validIdent).slice(0, 2);
			if (cls.length > 0) {
				const sel = el.tagName.toLowerCase() + '.' + cls.join('.');
				try {
					if (document.querySelectorAll(sel).length === 1) return sel;
				} catch (e) {}
			}
		}
		const parent = el.parentElement;
		if (parent && parent !== document.body) {
			const idx = Array.from(parent.children).indexOf(el) + 1;
			return selectorOf(parent) + ' > ' + el.tagName.toLowerCase() + ':nth-child(' + idx + ')';
		}
		return el.tagName.toLowerCase();
	}

	function add(el, kind, label) {
		if (!el.offsetParent) return;
		const selector = selectorOf(el);
		if (seen.has(selector)) return;
		seen.add(selector);
		out.push({selector, kind, label: (label || '').trim().slice(0, 40)});
	}

	document.querySelectorAll('button, [role="button"], input[type="submit"], input[type="button"]').forEach(el =>
		add(el, 'button', el.textContent || el.value || el.getAttribute('aria-label')));
	document.querySelectorAll('input:not([type="hidden"]):not([type="submit"]):not([type="button"]), textarea').forEach(el =>
		add(el, el.type || 'text', el.placeholder || el.name || el.id || el.getAttribute('aria-label')));
	document.querySelectorAll('select').forEach(el => add(el, 'select', el.name || el.id));
	document.querySelectorAll('a[href]').forEach(el => {
		const href = el.getAttribute('href');
		if (href.startsWith('#') || href.startsWith('javascript:')) return;
		add(el, 'link', el.textContent);
	});
	return out;
}`

// Scan lists the visible interactive elements of the current page
func (b *Browser) Scan(ctx context.Context) ([]Candidate, error) {
	res, err := b.page.Context(ctx).Eval(scanScript)
	if err != nil {
		return nil, fmt.Errorf("scan page: %w", err)
	}

	var out []Candidate
	for _, v := range res.Value.Arr() {
		out = append(out, Candidate{
			Selector: v.Get("selector").String(),
			Kind:     v.Get("kind").String(),
			Label:    v.Get("label").String(),
		})
	}
	return out, nil
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Suggest turns scan results into a page definition skeleton with
// logical names derived from the element labels
func Suggest(name string, found []Candidate) *page.Definition {
	title := cases.Title(language.Und)
	def := &page.Definition{Name: name}
	used := map[string]int{}

	for _, c := range found {
		var b strings.Builder
		for _, w := range nonWord.Split(c.Label, -1) {
			if w != "" {
				b.WriteString(title.String(w))
			}
		}
		base := b.String()
		if base == "" || (base[0] >= '0' && base[0] <= '9') {
			base = title.String(c.Kind) + base
		}

		used[base]++
		n := base
		if used[base] > 1 {
			n = fmt.Sprintf("%s%d", base, used[base])
		}
		def.Fields = append(def.Fields, page.Field{Name: n, Locator: c.Selector})
	}
	return def
}
