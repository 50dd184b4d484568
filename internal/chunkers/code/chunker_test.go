package code

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pythonSample = `import unittest

def create_order(vendor):
    """Creates a purchase order."""
    return vendor.upper()

def cancel_order(order_id):
    return order_id is not None

class OrderTests(unittest.TestCase):
    def test_create(self):
        assert create_order("acme") == "ACME"
`

const featureSample = `Feature: Purchase order creation

  Scenario: Create a standard order
    Given a logged-in buyer
    When they submit transaction ME21N
    Then an order number is returned

  Scenario: Reject an empty vendor
    Given a logged-in buyer
    When they submit an order without a vendor
    Then validation fails
`

func TestChunker_Chunk_Empty(t *testing.T) {
	c := New()
	drafts, err := c.Chunk(context.Background(), "\n\n")
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestChunker_Chunk_FunctionBoundaries(t *testing.T) {
	c := New(WithChunkSize(90))

	drafts, err := c.Chunk(context.Background(), pythonSample)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(drafts), 2)

	// Function bodies are not torn apart: each def keeps its body.
	for _, d := range drafts {
		if strings.HasPrefix(d.Text, "def create_order") {
			assert.Contains(t, d.Text, "return vendor.upper()")
		}
	}
}

func TestChunker_Chunk_NestedDefsStayWithParent(t *testing.T) {
	c := New(WithChunkSize(4000))

	drafts, err := c.Chunk(context.Background(), pythonSample)
	require.NoError(t, err)
	require.NotEmpty(t, drafts)

	// The indented test_create def must not start its own block.
	for _, d := range drafts {
		assert.False(t, strings.HasPrefix(d.Text, "    def test_create"))
	}
}

func TestChunker_Chunk_ScenarioBoundaries(t *testing.T) {
	c := New(WithChunkSize(150))

	drafts, err := c.Chunk(context.Background(), featureSample)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(drafts), 2)

	var scenarios int
	for _, d := range drafts {
		if strings.Contains(d.Text, "Scenario:") {
			scenarios++
		}
	}
	assert.GreaterOrEqual(t, scenarios, 2)
}

func TestChunker_Chunk_OversizedBlockFallsBack(t *testing.T) {
	c := New(WithChunkSize(120))

	var body strings.Builder
	body.WriteString("def enormous():\n")
	for i := 0; i < 40; i++ {
		body.WriteString("    value = compute_something_useful()\n")
	}

	drafts, err := c.Chunk(context.Background(), body.String())
	require.NoError(t, err)
	assert.Greater(t, len(drafts), 1)
}

func TestIsBlockStart(t *testing.T) {
	assert.True(t, isBlockStart("def main():"))
	assert.True(t, isBlockStart("async def fetch():"))
	assert.True(t, isBlockStart("class Foo:"))
	assert.True(t, isBlockStart("func main() {"))
	assert.True(t, isBlockStart("  Scenario: nested is fine"))
	assert.True(t, isBlockStart("Scenario Outline: rows"))
	assert.False(t, isBlockStart("    def nested():"))
	assert.False(t, isBlockStart("x = 1"))
}
