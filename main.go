package main

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/progressbar"

	_ "github.com/samuelfneumann/goreinforce/environment/mountaincar"
	"github.com/samuelfneumann/goreinforce/reinforce"
	"github.com/samuelfneumann/goreinforce/trackers"
)

func main() {
	numIters := 10

	config := reinforce.TestConfig()
	config.Seed = 192382

	returns := trackers.NewReturn("./data.bin")

	agent, err := reinforce.New(config, returns)
	if err != nil {
		log.Fatalf("could not create training run: %v", err)
	}
	defer agent.Close()

	training, err := agent.Train(numIters)
	if err != nil {
		log.Fatalf("could not start training: %v", err)
	}

	bar := progressbar.NewManual(50, numIters)
	bar.Display()
	for training.Next() {
		losses := training.Losses()
		fmt.Printf("\nloss %v %v\n", losses[0], losses[len(losses)-1])

		bar.Increment()
		bar.Display()
	}
	if err := training.Err(); err != nil {
		log.Fatalf("training failed: %v", err)
	}

	if err := returns.Save(); err != nil {
		log.Fatalf("could not save returns: %v", err)
	}

	data, err := trackers.LoadReturns("./data.bin")
	if err != nil {
		log.Fatalf("could not load returns: %v", err)
	}
	fmt.Println()
	if len(data) > 10 {
		data = data[len(data)-10:]
	}
	fmt.Println(data)
}
