package planner

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/util"
)

type BadFilterError struct {
	Expression string
	Err        error
}

func (e *BadFilterError) Error() string {
	return fmt.Sprintf("filter %q: %s", e.Expression, e.Err)
}

func (e *BadFilterError) Unwrap() error {
	return e.Err
}

// FilterEnv is what a filter expression can refer to, for example
// `cost < 20 && transfers == 0` or `"Y" in stations`
type FilterEnv struct {
	Cost      float64  `expr:"cost"`
	Minutes   int      `expr:"minutes"`
	Transfers int      `expr:"transfers"`
	Departure string   `expr:"departure"`
	Arrival   string   `expr:"arrival"`
	Services  []int    `expr:"services"`
	Stations  []string `expr:"stations"`
}

type Filter struct {
	expression string
	program    *vm.Program
}

func CompileFilter(expression string) (*Filter, error) {
	program, err := expr.Compile(expression, expr.Env(FilterEnv{}), expr.AsBool())
	if err != nil {
		return nil, &BadFilterError{Expression: expression, Err: err}
	}

	return &Filter{expression: expression, program: program}, nil
}

func filterEnv(it *itinerary.Itinerary) FilterEnv {
	env := FilterEnv{
		Cost:      it.Cost(),
		Minutes:   int(it.Duration().Minutes()),
		Transfers: len(it.Legs()) - 1,
		Departure: util.FormatClock(it.DepartureTime()),
		Arrival:   util.FormatClock(it.ArrivalTime()),
		Services:  it.ServiceIDs(),
	}

	for _, stop := range it.Stops() {
		if len(env.Stations) == 0 || env.Stations[len(env.Stations)-1] != stop.Station {
			env.Stations = append(env.Stations, stop.Station)
		}
	}

	return env
}

func (f *Filter) Match(it *itinerary.Itinerary) (bool, error) {
	output, err := expr.Run(f.program, filterEnv(it))
	if err != nil {
		return false, &BadFilterError{Expression: f.expression, Err: err}
	}

	return output.(bool), nil
}
