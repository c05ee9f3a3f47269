package svg2png

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// fillPattern matches a complete fill declaration inside a style attribute,
// "fill:" through the terminating semicolon. Only the matched segment is
// replaced; other style properties are left byte-identical.
var fillPattern = regexp.MustCompile(`fill:[^;]+;`)

// ParseDocument parses raw SVG bytes into a mutable element tree and the
// namespace prefix to URI map declared in the document. The map is harvested
// from xmlns declarations during a single walk; serialization preserves the
// original prefixes, so the map exists for callers that need to resolve
// prefixed names, not to drive re-serialization.
func ParseDocument(src []byte) (*etree.Document, map[string]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(src); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("%w: document has no root element", ErrParse)
	}

	nsMap := make(map[string]string)
	harvestNamespaces(root, nsMap)
	return doc, nsMap, nil
}

// harvestNamespaces records xmlns declarations from el and its descendants.
// The first declaration of a prefix wins, matching document order.
func harvestNamespaces(el *etree.Element, nsMap map[string]string) {
	for _, attr := range el.Attr {
		switch {
		case attr.Space == "xmlns":
			if _, ok := nsMap[attr.Key]; !ok {
				nsMap[attr.Key] = attr.Value
			}
		case attr.Space == "" && attr.Key == "xmlns":
			if _, ok := nsMap[""]; !ok {
				nsMap[""] = attr.Value
			}
		}
	}
	for _, child := range el.ChildElements() {
		harvestNamespaces(child, nsMap)
	}
}

// intIgnoringUnits parses a dimension attribute value, discarding any unit
// suffix: "48px", "48mm" and "48" all yield 48.
func intIgnoringUnits(s string) (int, error) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("%w: no digits in dimension %q", ErrParse, s)
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, fmt.Errorf("%w: dimension %q: %v", ErrParse, s, err)
	}
	return n, nil
}

// canvasSize reads the declared width and height from the root element.
func canvasSize(root *etree.Element) (width, height int, err error) {
	wAttr := root.SelectAttr("width")
	if wAttr == nil {
		return 0, 0, fmt.Errorf("%w: width", ErrMissingAttribute)
	}
	hAttr := root.SelectAttr("height")
	if hAttr == nil {
		return 0, 0, fmt.Errorf("%w: height", ErrMissingAttribute)
	}
	if width, err = intIgnoringUnits(wAttr.Value); err != nil {
		return 0, 0, err
	}
	if height, err = intIgnoringUnits(hAttr.Value); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// recolorStyle rewrites the fill declaration of a style string to color.
// Styles without a fill declaration are returned unchanged.
func recolorStyle(style, color string) string {
	return fillPattern.ReplaceAllString(style, "fill:"+color+";")
}

// recolorTree rewrites the fill of el and every descendant. Elements without
// a style attribute get exactly `fill:<color>;` so each visible node carries
// an explicit fill.
func recolorTree(el *etree.Element, color string) {
	if attr := el.SelectAttr("style"); attr != nil {
		attr.Value = recolorStyle(attr.Value, color)
	} else {
		el.CreateAttr("style", "fill:"+color+";")
	}
	for _, child := range el.ChildElements() {
		recolorTree(child, color)
	}
}

// isStructuralTag reports whether a direct child must stay in place: defs and
// metadata hold non-visible content and are never recolored or regrouped.
func isStructuralTag(tag string) bool {
	return strings.HasSuffix(tag, "defs") || strings.HasSuffix(tag, "metadata")
}

const svgNamespace = "http://www.w3.org/2000/svg"

// isSVGChild reports whether a direct child resolves to the SVG namespace.
// Editor state in foreign namespaces, such as sodipodi:namedview, is not
// drawable content and stays at the root untouched.
func isSVGChild(el *etree.Element, nsMap map[string]string) bool {
	uri, declared := nsMap[el.Space]
	if !declared {
		return el.Space == ""
	}
	return uri == svgNamespace
}

// formatCoord renders a matrix coefficient without float noise: values are
// rounded to six decimals and trailing zeros dropped, so a 3.6 gap prints
// as "3.6" rather than "3.6000000000000005".
func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

// paddingTransform builds the affine matrix that scales content by shrink and
// re-centers it within a width x height canvas.
func paddingTransform(shrink float64, width, height int) string {
	widthGap := (1 - shrink) * float64(width) / 2
	heightGap := (1 - shrink) * float64(height) / 2
	s := formatCoord(shrink)
	return fmt.Sprintf("matrix(%s,0,0,%s,%s,%s)", s, s, formatCoord(widthGap), formatCoord(heightGap))
}

// Transform rewrites an SVG document for icon rendering: every visible direct
// child of the root in the SVG namespace is recolored to color and moved into
// a wrapper group that scales content down by ShrinkFactor and re-centers it,
// leaving a padding border without changing the declared canvas size. defs,
// metadata and foreign-namespace children are left untouched and in place.
// The result is serialized with indentation so the intermediate file is
// readable when debugging.
func Transform(src []byte, color string) ([]byte, error) {
	doc, nsMap, err := ParseDocument(src)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	width, height, err := canvasSize(root)
	if err != nil {
		return nil, err
	}

	group := etree.NewElement("g")
	for _, child := range root.ChildElements() {
		if isStructuralTag(child.Tag) || !isSVGChild(child, nsMap) {
			continue
		}
		root.RemoveChild(child)
		recolorTree(child, color)
		group.AddChild(child)
	}
	group.CreateAttr("transform", paddingTransform(ShrinkFactor, width, height))
	root.AddChild(group)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	return out, nil
}
