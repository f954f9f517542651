package cmd

import (
	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete handles shell completion requests for the program name, and exits
// when it was one. Install it with COMP_INSTALL=1 <name>.
func Complete(name string) {
	completion(cryptofolio.DefaultConfig().Sections).Complete(name)
}

func completion(sections []string) *complete.Command {
	topics, _ := docs.GetAllTopics()
	section := predict.Set(sections)
	coins := predict.Set(cryptofolio.CoinKeys())

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"coins":  {},
			"prices": {},
			"add": {Flags: map[string]complete.Predictor{
				"s":      section,
				"coin":   coins,
				"amount": predict.Nothing,
				"price":  predict.Nothing,
			}},
			"show":  {Flags: map[string]complete.Predictor{"s": section}},
			"serve": {Flags: map[string]complete.Predictor{"listen": predict.Nothing}},
			"topic": {Args: predict.Set(topics)},
			"help":  {},
		},
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.yaml"),
			"currency":  predict.Set{"EUR", "USD", "GBP", "CHF"},
			"storage":   predict.Set{"file", "memory", "redis"},
			"data-file": predict.Files("*.json"),
		},
	}
}
