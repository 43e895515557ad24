package commands

import (
	"testing"

	"github.com/josephlewis42/mercury/core/cmderr"
	"github.com/stretchr/testify/assert"
)

func TestNice(t *testing.T) {
	ts := newTestSession(t)

	err := ts.run("nice 10 yes")

	assert.Nil(t, err)
	assert.Equal(t, [][]string{{"yes"}}, ts.starter.Started())
	assert.Equal(t, []int{1000}, ts.Jobs.Pids())
	assert.Equal(t, 10, ts.priorities[1000])
}

func TestNice_remainderIsProgramName(t *testing.T) {
	ts := newTestSession(t)

	assert.Nil(t, ts.run("nice -5 sleep 100"))
	assert.Equal(t, [][]string{{"sleep 100"}}, ts.starter.Started())
	assert.Equal(t, -5, ts.priorities[1000])
}

func TestNice_errors(t *testing.T) {
	cases := map[string]cmderr.Code{
		"nice high yes":    cmderr.InvalidArgument,
		"nice 10 missing":  cmderr.InvalidProcessInput,
		"nice 10 && false": cmderr.InvalidProcessInput,
	}

	for line, expected := range cases {
		t.Run(line, func(t *testing.T) {
			ts := newTestSession(t, "missing", "&& false")

			assert.Equal(t, expected, ts.run(line))
			assert.Equal(t, 0, ts.Jobs.Len())
		})
	}
}
