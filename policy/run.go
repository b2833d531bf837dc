package policy

import "github.com/nathoo/tallgrass/types"

// Episode summarizes one policy rollout.
type Episode struct {
	Steps  int
	Reward float64
	Done   bool
	Last   types.Result
}

// StepFunc advances an environment, local or remote.
type StepFunc func(action int) (types.Result, error)

// Run drives step with p from obs until the episode ends or maxSteps
// actions have been taken. maxSteps <= 0 means no limit. each, when not
// nil, sees every result.
func Run(step StepFunc, obs types.Observation, p Policy, maxSteps int, each func(types.Result)) (Episode, error) {
	var ep Episode
	for maxSteps <= 0 || ep.Steps < maxSteps {
		r, err := step(p.SelectAction(obs))
		if err != nil {
			return ep, err
		}
		ep.Steps++
		ep.Reward += r.Reward
		ep.Last = r
		if each != nil {
			each(r)
		}
		if r.Done {
			ep.Done = true
			break
		}
		obs = r.Observation
	}
	return ep, nil
}
