package optimize

import (
	"github.com/tdewolff/parse/v2/strconv"
)

// box is an axis-aligned bounding box in the path's user space.
type box struct {
	minX, minY, maxX, maxY float64
	set                    bool
}

func (b *box) add(x, y float64) {
	if !b.set {
		*b = box{minX: x, minY: y, maxX: x, maxY: y, set: true}
		return
	}
	b.minX, b.maxX = min(b.minX, x), max(b.maxX, x)
	b.minY, b.maxY = min(b.minY, y), max(b.maxY, y)
}

func (b box) union(o box) box {
	if !b.set {
		return o
	}
	if o.set {
		b.add(o.minX, o.minY)
		b.add(o.maxX, o.maxY)
	}
	return b
}

// overlaps treats touching edges as overlapping.
func (b box) overlaps(o box) bool {
	return b.minX <= o.maxX && o.minX <= b.maxX && b.minY <= o.maxY && o.minY <= b.maxY
}

var pathArgs = map[byte]int{
	'M': 2, 'L': 2, 'T': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'Z': 0,
}

// pathBounds returns a box containing every point and control point of d.
// Bezier curves stay inside the hull of their control points, so the box is
// conservative. Arcs and unparsable data report ok=false.
func pathBounds(d string) (b box, ok bool) {
	data := []byte(d)
	var cmd byte
	var curX, curY, startX, startY float64
	args := make([]float64, 0, 6)

	for i := 0; ; {
		for i < len(data) && (data[i] == ' ' || data[i] == ',' || data[i] == '\t' || data[i] == '\n' || data[i] == '\r') {
			i++
		}
		if i >= len(data) {
			break
		}
		c := data[i]
		if upper := c &^ 0x20; upper >= 'A' && upper <= 'Z' {
			if _, known := pathArgs[upper]; !known {
				return box{}, false
			}
			cmd = c
			i++
			if upper == 'Z' {
				curX, curY = startX, startY
			}
			continue
		}
		upper := cmd &^ 0x20
		n := pathArgs[upper]
		if cmd == 0 || n == 0 {
			return box{}, false
		}

		args = args[:0]
		for len(args) < n {
			for i < len(data) && (data[i] == ' ' || data[i] == ',' || data[i] == '\t' || data[i] == '\n' || data[i] == '\r') {
				i++
			}
			f, used := strconv.ParseFloat(data[i:])
			if used == 0 {
				return box{}, false
			}
			args = append(args, f)
			i += used
		}

		rel := cmd != upper
		switch upper {
		case 'H':
			if rel {
				curX += args[0]
			} else {
				curX = args[0]
			}
			b.add(curX, curY)
		case 'V':
			if rel {
				curY += args[0]
			} else {
				curY = args[0]
			}
			b.add(curX, curY)
		default:
			for k := 0; k < n; k += 2 {
				x, y := args[k], args[k+1]
				if rel {
					x, y = x+curX, y+curY
				}
				b.add(x, y)
			}
			x, y := args[n-2], args[n-1]
			if rel {
				x, y = x+curX, y+curY
			}
			curX, curY = x, y
			if upper == 'M' {
				startX, startY = x, y
				// further pairs after a moveto are linetos
				if rel {
					cmd = 'l'
				} else {
					cmd = 'L'
				}
			}
		}
	}
	return b, b.set
}
