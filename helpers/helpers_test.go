package helpers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	e1, e2 := errors.New("one"), errors.New("two")
	assert.Equal(t, e1, FoldErrors([]error{nil, e1}))
	err := FoldErrors([]error{e1, nil, e2})
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
	assert.Equal(t, "2 errors:\none\ntwo", err.Error())
}

func TestIntSecondConfigDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 30*time.Second, IntSecondConfigDefault(0, 30))
	assert.Equal(t, 30*time.Second, IntSecondConfigDefault(-1, 30))
	assert.Equal(t, time.Minute, IntSecondConfigDefault(60, 30))
}

func TestOverrideStructure(t *testing.T) {
	t.Parallel()

	type inner struct{ X int }
	type conf struct {
		Name  string `hcl:"name,optional"`
		Count int    `hcl:"count,optional"`
		List  []int  `hcl:"list,optional"`
		Flag  bool   `hcl:"flag,optional"`
		Plain int
		Inner inner `hcl:"inner,block"`
	}
	present := map[string]bool{"count": true, "flag": true, "list": true, "inner": true}
	target := conf{Name: "base", Count: 1, List: []int{1}, Flag: true, Plain: 3, Inner: inner{X: 1}}
	OverrideStructure(&target, &conf{Count: 0, Flag: false, Plain: 7, Inner: inner{X: 9}},
		func(attr string) bool { return present[attr] })
	// present zero values override, absent ones and untagged fields keep base
	assert.Equal(t, conf{Name: "base", Plain: 3, Inner: inner{X: 1}}, target)
}
