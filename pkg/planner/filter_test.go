package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/ticketoffice/pkg/network"
)

func TestFilter(t *testing.T) {
	assert := assert.New(t)

	n := network.New()
	assert.Nil(n.AddServiceStops(1, 10, stopAt(t, "X", "08:00"), stopAt(t, "Y", "09:00"), stopAt(t, "Z", "10:00")))
	assert.Nil(n.AddServiceStops(2, 6, stopAt(t, "X", "08:00"), stopAt(t, "Y", "08:30")))
	assert.Nil(n.AddServiceStops(3, 4, stopAt(t, "Y", "08:45"), stopAt(t, "Z", "09:15")))

	q := mustQuery(t, "X", "Z", "07:00")

	results, err := (&Builder{Network: n}).Build(q)
	assert.Nil(err)
	if !assert.Len(results, 2) {
		return
	}
	direct, composed := results[0], results[1]

	cases := []struct {
		expression string
		direct     bool
		composed   bool
	}{
		{"transfers == 0", true, false},
		{"minutes < 90", false, true},
		{`"Y" in stations && 1 in services`, true, false},
		{`departure == "08:00" && cost <= 10`, true, true},
		{`arrival > "09:30"`, true, false},
	}

	for _, c := range cases {
		filter, err := CompileFilter(c.expression)
		if !assert.Nil(err, c.expression) {
			continue
		}

		matched, err := filter.Match(direct)
		assert.Nil(err)
		assert.Equal(c.direct, matched, c.expression)

		matched, err = filter.Match(composed)
		assert.Nil(err)
		assert.Equal(c.composed, matched, c.expression)
	}
}

func TestCompileFilterRejectsBadExpressions(t *testing.T) {
	assert := assert.New(t)

	for _, expression := range []string{"cost +", "cost + 1", "platform == 2"} {
		_, err := CompileFilter(expression)

		var badFilter *BadFilterError
		assert.True(errors.As(err, &badFilter), expression)
	}
}
