package game

// FindGroupAndLiberties returns the group of same-colored, 4-connected stones
// containing (x, y) and the number of distinct empty cells adjacent to it.
// An empty or out-of-bounds start yields no group and no liberties.
func FindGroupAndLiberties(g Grid, x, y int) ([]Point, int) {
	visited := make([]bool, g.size*g.size)
	return floodGroup(g, x, y, visited)
}

// FindCapturedGroups returns every stone of color c that belongs to a group
// without liberties. Each stone is visited once.
func FindCapturedGroups(g Grid, c Color) []Point {
	var captured []Point
	target := c.Cell()
	visited := make([]bool, g.size*g.size)
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			if g.At(x, y) != target || visited[g.index(x, y)] {
				continue
			}
			group, liberties := floodGroup(g, x, y, visited)
			if liberties == 0 {
				captured = append(captured, group...)
			}
		}
	}
	return captured
}

// floodGroup runs a breadth-first search from (x, y) over stones of the same
// color, marking them in visited. Liberties are collected as a set so a cell
// shared by several stones of the group counts once.
func floodGroup(g Grid, x, y int, visited []bool) ([]Point, int) {
	if !g.InBounds(x, y) {
		return nil, 0
	}
	color := g.At(x, y)
	if color == CellEmpty {
		return nil, 0
	}

	liberties := make(map[int]struct{})
	group := []Point{}
	queue := []Point{{X: x, Y: y}}
	visited[g.index(x, y)] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		group = append(group, p)
		for _, d := range neighbors {
			nx, ny := p.X+d[0], p.Y+d[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			idx := g.index(nx, ny)
			switch g.At(nx, ny) {
			case CellEmpty:
				liberties[idx] = struct{}{}
			case color:
				if !visited[idx] {
					visited[idx] = true
					queue = append(queue, Point{X: nx, Y: ny})
				}
			}
		}
	}
	return group, len(liberties)
}
