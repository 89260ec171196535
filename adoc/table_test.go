package adoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnSpecWidthsAndAlignment(t *testing.T) {
	cols := ParseColumnSpec("1,2,^3")
	require.Len(t, cols, 3)
	assert.Equal(t, 1, cols[0].Width.Value)
	assert.Equal(t, 2, cols[1].Width.Value)
	assert.Equal(t, HAlignCenter, cols[2].HAlign)
}

func TestParseColumnSpecRepeatExpandsColumns(t *testing.T) {
	cols := ParseColumnSpec("3*^")
	require.Len(t, cols, 3)
	for _, c := range cols {
		assert.Equal(t, HAlignCenter, c.HAlign)
		assert.Equal(t, 1, c.Repeat)
	}
}

func TestParseColumnSpecStyleLetter(t *testing.T) {
	cols := ParseColumnSpec("a,m,h")
	require.Len(t, cols, 3)
	assert.Equal(t, ColumnStyleAsciiDoc, cols[0].Style)
	assert.Equal(t, ColumnStyleMonospace, cols[1].Style)
	assert.Equal(t, ColumnStyleHeader, cols[2].Style)
}

func TestSplitTableCellsDoesNotEmitLeadingEmptyCell(t *testing.T) {
	cells := splitTableCells("|Cell1|Cell2|Cell3")
	assert.Equal(t, []string{"Cell1", "Cell2", "Cell3"}, cells)
}

func TestSplitTableCellsKeepsIntentionalEmptyCell(t *testing.T) {
	cells := splitTableCells("||Cell2")
	assert.Equal(t, []string{"", "Cell2"}, cells)
}

func TestSplitTableCellsHonorsEscapedPipe(t *testing.T) {
	cells := splitTableCells(`|a\|b|c`)
	assert.Equal(t, []string{"a|b", "c"}, cells)
}

// cellText unwraps a TableCell's sole synthesized Paragraph, the default
// shape every non-AsciiDoc-style cell gets (spec.md §8 scenario S5).
func cellText(t *testing.T, cell TableCell) string {
	t.Helper()
	require.Len(t, cell.Blocks, 1)
	p, ok := cell.Blocks[0].(Paragraph)
	require.True(t, ok)
	return InlinesToString(p.Content)
}

func TestParseTableWithHeaderAndColsAttribute(t *testing.T) {
	// cols' value must stay comma-free here: parseBlockAttrLine splits the
	// whole [..] attribute list on "," with no quote-awareness, so a
	// comma-separated cols spec like "1,1" would be split apart.
	src := "[cols=\"2*1\",%header]\n|===\n|Name |Age\n|Alice |30\n|Bob |40\n|===\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	tbl, ok := doc.Blocks[0].(Table)
	require.True(t, ok)
	require.Len(t, tbl.Columns, 2)
	require.NotNil(t, tbl.Header)
	require.Len(t, tbl.Header.Cells, 2)
	assert.Equal(t, "Name", cellText(t, tbl.Header.Cells[0]))
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Alice", cellText(t, tbl.Rows[0].Cells[0]))
	assert.Equal(t, "40", cellText(t, tbl.Rows[1].Cells[1]))
}

// spec.md §8 scenario S5: two rows of two columns, each cell content
// [Paragraph(PlainText)].
func TestParseTableCellContentIsWrappedInParagraph(t *testing.T) {
	src := "|===\n|A |B\n|1 |2\n|===\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	tbl := doc.Blocks[0].(Table)
	require.Len(t, tbl.Rows, 2)
	for _, row := range tbl.Rows {
		require.Len(t, row.Cells, 2)
		for _, cell := range row.Cells {
			require.Len(t, cell.Blocks, 1)
			_, ok := cell.Blocks[0].(Paragraph)
			assert.True(t, ok)
		}
	}
	assert.Equal(t, "A", cellText(t, tbl.Rows[0].Cells[0]))
	assert.Equal(t, "2", cellText(t, tbl.Rows[1].Cells[1]))
}

// A column's cols= style is recorded per-cell and still wraps its content
// in a Paragraph, same as the default style.
func TestParseTableAsciiDocStyleCellIsTaggedAndWrapped(t *testing.T) {
	src := "[cols=\"a\"]\n|===\n|Cell text.\n|===\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	tbl := doc.Blocks[0].(Table)
	require.Len(t, tbl.Rows, 1)
	cell := tbl.Rows[0].Cells[0]
	assert.Equal(t, ColumnStyleAsciiDoc, cell.Style)
	assert.Equal(t, "Cell text.", cellText(t, cell))
}

func TestParseTableWithoutHeaderKeepsFirstRowAsData(t *testing.T) {
	src := "|===\n|a |b\n|===\n"
	doc, err := Parse(src, "doc.adoc", nil)
	require.NoError(t, err)
	tbl := doc.Blocks[0].(Table)
	assert.Nil(t, tbl.Header)
	require.Len(t, tbl.Rows, 1)
}
