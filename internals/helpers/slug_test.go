package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "ravi-kumar-scheme", Slugify("  Ravi Kumar -- Scheme!! ", 0))
	assert.Equal(t, "cafe-creme", Slugify("Café Crème", 0))
	assert.Equal(t, "item", Slugify("***", 0))
	assert.Equal(t, "abc", Slugify("abc-def", 3))
}

func TestGroupKey_FoldsCaseSpacingAndMarks(t *testing.T) {
	assert.Equal(t, "mahila mandal", GroupKey("  Mahila   Mandal "))
	assert.Equal(t, GroupKey("Cafe Group"), GroupKey("Café group"))
	// full-width letters fold under NFKC
	assert.Equal(t, "abc", GroupKey("ＡＢＣ"))
}

func TestCleanGroupName_KeepsCase(t *testing.T) {
	assert.Equal(t, "Mahila Mandal", CleanGroupName("  Mahila \t Mandal  "))
}

func TestGroupKeyPtr(t *testing.T) {
	name, key := GroupKeyPtr(nil)
	assert.Nil(t, name)
	assert.Nil(t, key)

	blank := "   "
	name, key = GroupKeyPtr(&blank)
	assert.Nil(t, name)
	assert.Nil(t, key)

	raw := " North  Ward "
	name, key = GroupKeyPtr(&raw)
	if assert.NotNil(t, name) && assert.NotNil(t, key) {
		assert.Equal(t, "North Ward", *name)
		assert.Equal(t, "north ward", *key)
	}
}
