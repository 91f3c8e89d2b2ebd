// Package ingesttest writes synthetic ASVspoof2017 protocol files for tests.
package ingesttest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sizes of the synthetic competition corpus. They match the published
// train and dev partitions; the evaluation protocol is not written.
const (
	Clients      = 18
	TrainClients = 10

	TrainGenuine = 1508
	TrainSpoof   = 1508
	DevGenuine   = 760
	DevSpoof     = 950

	Files = TrainGenuine + TrainSpoof + DevGenuine + DevSpoof
)

// ClientID returns the id of the n-th client, starting at 1
func ClientID(n int) string {
	return fmt.Sprintf("M%04d", n)
}

// WriteProtocol writes lines to dir/name and returns the full path
func WriteProtocol(dir, name string, lines []string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCompetition writes the train and dev protocol files to dir. Train
// samples belong to clients 1..TrainClients, dev samples to the rest.
func WriteCompetition(dir string) error {
	train := splitLines("T", 1, TrainClients, TrainGenuine, TrainSpoof)
	if _, err := WriteProtocol(dir, "ASVspoof2017_train.trn.txt", train); err != nil {
		return err
	}
	dev := splitLines("D", TrainClients+1, Clients-TrainClients, DevGenuine, DevSpoof)
	if _, err := WriteProtocol(dir, "ASVspoof2017_dev.trl.txt", dev); err != nil {
		return err
	}
	return nil
}

// EvalLines returns n lines in the two-column evaluation layout
func EvalLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("E_%07d.wav S%02d", 1000001+i, i%10+1)
	}
	return lines
}

func splitLines(prefix string, firstClient, clients, genuine, spoof int) []string {
	lines := make([]string, 0, genuine+spoof)
	for i := 0; i < genuine+spoof; i++ {
		client := ClientID(firstClient + i%clients)
		name := fmt.Sprintf("%s_%07d.wav", prefix, 1000001+i)
		phrase := fmt.Sprintf("S%02d", i%10+1)
		if i < genuine {
			lines = append(lines, fmt.Sprintf("%s genuine %s %s - - -", name, client, phrase))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s spoof %s %s E%02d P%02d R%02d",
			name, client, phrase, i%6+1, i%15+1, i%16+1))
	}
	return lines
}
