// Command mersproof drives a PRP or Lucas-Lehmer residue test over
// M_E = 2^E - 1, persisting proof checkpoints and the live residue as it
// goes, and emits a PRPLL-compatible proof-of-iterated-squaring artifact
// once the final iteration completes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"mersproof/checkpoint"
	"mersproof/measureutil"
	"mersproof/prof"
	"mersproof/proof"
	"mersproof/residue"
	"mersproof/squarer"
	"mersproof/squarer/cpu"
)

func main() {
	var (
		exponent  = flag.Uint64("E", 0, "Mersenne exponent (required, must be odd)")
		power     = flag.Int("power", 0, "proof level, 2..12 (0 = derive from -E via checkpoint.BestPower)")
		mode      = flag.String("mode", "prp", "prp|ll")
		savePath  = flag.String("save", ".", "directory for live-residue backup files")
		checkStep = flag.Uint64("checkpoint-interval", 10000, "iterations between live-residue backups")
		measure   = flag.Bool("measure", false, "print a byte-accounting report after the run (bytes are counted only when MEASURE_SIZES=1)")
	)
	flag.Parse()

	if *exponent == 0 {
		log.Fatalf("mersproof: -E is required")
	}
	cpuMode := cpu.PRP
	if *mode == "ll" {
		cpuMode = cpu.LucasLehmer
	} else if *mode != "prp" {
		log.Fatalf("mersproof: unknown -mode %q, want prp or ll", *mode)
	}

	power32 := *power
	if power32 == 0 {
		power32 = checkpoint.BestPower(*exponent)
	}

	sched, err := checkpoint.NewSchedule(*exponent, power32)
	if err != nil {
		log.Fatalf("mersproof: %v", err)
	}
	store, err := checkpoint.NewStore(sched, *savePath, *mode, 0, 0)
	if err != nil {
		log.Fatalf("mersproof: %v", err)
	}

	fmt.Printf("mersproof: E=%d power=%d mode=%s estimated proof disk usage %.2f GiB\n",
		*exponent, power32, *mode, sched.DiskUsageGB())

	if err := run(store, sched, cpuMode, *checkStep); err != nil {
		log.Fatalf("mersproof: %v", err)
	}
	for _, entry := range prof.SnapshotAndReset() {
		fmt.Printf("mersproof: %s took %s\n", entry.Label, entry.Dur)
	}

	if *measure {
		for k, v := range measureutil.SnapshotAndReset() {
			fmt.Printf("mersproof: measured %s = %d bytes\n", k, v)
		}
	}
}

func run(store *checkpoint.Store, sched *checkpoint.Schedule, mode cpu.Mode, checkStep uint64) error {
	loopStart := time.Now()

	var sq squarer.Squarer = cpu.New(uint32(sched.E), mode)

	deviceWordCount := (residue.WordCount(uint32(sched.E)) + 1) / 2
	buffer := make([]uint64, deviceWordCount)
	resume, err := store.LoadState(buffer)
	if err != nil {
		return fmt.Errorf("load live residue: %w", err)
	}
	// The loop file holds the index after the saved residue's iteration, so
	// the restored residue is the one at iteration resume-1.
	start := uint64(0)
	if resume > 0 {
		start = resume - 1
		if err := sq.WriteWords(buffer); err != nil {
			return fmt.Errorf("resume squarer state: %w", err)
		}
	}

	ctx := context.Background()
	for k := start; k < sched.E; k++ {
		if err := sq.Iterate(ctx); err != nil {
			return fmt.Errorf("iterate at %d: %w", k, err)
		}
		next := k + 1

		words64, err := sq.ReadWords()
		if err != nil {
			return fmt.Errorf("read residue at %d: %w", next, err)
		}

		if sched.IsCheckpoint(next) {
			words32 := residue.Repack64To32(words64)[:residue.WordCount(uint32(sched.E))]
			if err := store.Save(next, words32); err != nil {
				return fmt.Errorf("save checkpoint %d: %w", next, err)
			}
		}
		if checkStep > 0 && (next%checkStep == 0 || next == sched.E) {
			if err := store.SaveState(words64, next); err != nil {
				return fmt.Errorf("save live residue at %d: %w", next, err)
			}
		}
	}
	prof.Track(loopStart, "squaring-loop")

	fmt.Println("mersproof: squaring loop complete, building proof")
	defer prof.Track(time.Now(), "proof-build")

	p, err := proof.Build(store, sched)
	if err != nil {
		return fmt.Errorf("build proof: %w", err)
	}
	if _, err := proof.Verify(p); err != nil {
		return fmt.Errorf("self-verify proof: %w", err)
	}

	fmt.Printf("mersproof: proof complete, res64 %016x, %d middles\n", proof.Res64(p.B), len(p.Middles))
	for i, m := range p.Middles {
		fmt.Printf("mersproof: level %d middle res64 %016x\n", i, proof.Res64(m))
	}
	return nil
}
