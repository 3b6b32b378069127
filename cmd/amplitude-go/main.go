// Command amplitude-go is a minimal host that boots the engine against the
// default device backend and idles, for manual smoke-testing the mixer
// against a real audio device (spec.md §6 "Audio callback").
package main

import (
	"log"
	"time"

	amplitude "github.com/sparkystudios/amplitude-go"
)

func main() {
	engine := amplitude.NewEngine(amplitude.DefaultEngineConfig())

	out, err := amplitude.NewDeviceOutput(amplitude.DefaultEngineConfig().SampleRate)
	if err != nil {
		log.Fatalf("device output: %v", err)
	}
	out.Attach(engine)
	out.Start()
	defer out.Close()

	log.Println("amplitude-go running, ctrl-c to exit")
	select {
	case <-time.After(24 * time.Hour):
	}
}
