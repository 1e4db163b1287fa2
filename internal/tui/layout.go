package tui

// shelfWidths splits availableWidth across the home shelves. The last
// shelf absorbs the remainder.
func shelfWidths(availableWidth, count int) []int {
	if count == 0 {
		return nil
	}
	each := availableWidth / count
	if each < MinColumnWidth {
		each = MinColumnWidth
	}
	widths := make([]int, count)
	for i := range widths {
		widths[i] = each
	}
	if rest := availableWidth - each*count; rest > 0 {
		widths[count-1] += rest
	}
	return widths
}

// updateLayout sizes every component to the terminal
func (m *Model) updateLayout() {
	contentHeight := m.Height - ChromeHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	m.Nav.SetWidth(m.Width)
	m.Picker.SetSize(m.Width, m.Height-1)
	for i, w := range shelfWidths(m.Width, len(m.Shelves)) {
		m.Shelves[i].SetSize(w, contentHeight)
	}
	m.Browse.SetSize(m.Width, contentHeight)
	m.Player.SetSize(m.Width, contentHeight)
	m.Search.SetSize(m.Width, m.Height)
	m.RemixPanel.SetSize(m.Width, m.Height)
	m.updateFocus()
}
