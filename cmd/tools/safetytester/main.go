package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
	"github.com/mpopa/stress-journal/backend/internal/config"
	"github.com/mpopa/stress-journal/backend/internal/guardrail"
	emotionservice "github.com/mpopa/stress-journal/backend/internal/service/emotion"
	"github.com/mpopa/stress-journal/backend/internal/service/safety"
)

// safetytester runs text through the intake pipeline from the command line.
// Useful for vetting pattern file changes before deploying them.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env loaded, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	text := flag.String("text", "", "single entry to check; empty reads lines from stdin")
	patternFile := flag.String("patterns", cfg.Safety.PatternFile, "pattern override file")
	filterMode := flag.Bool("filter", false, "treat input as agent output and run the output filter instead")
	asJSON := flag.Bool("json", false, "print raw JSON verdicts")
	flag.Parse()

	var source *patterns.Source
	if *patternFile != "" {
		source, err = patterns.NewFileSource(*patternFile)
		if err != nil {
			log.Fatalf("failed to load pattern file: %v", err)
		}
		defer source.Close()
	} else {
		source = patterns.NewStaticSource(patterns.Default())
	}
	log.Printf("pattern set %s active", source.Current().Version())

	validator := guardrail.NewInputValidator(cfg.Safety.MinInputChars, cfg.Safety.MaxInputChars, source, nil)
	classifier := guardrail.NewCrisisClassifier(guardrail.DefaultTemplates(cfg.Safety.CrisisHotline))
	filter := guardrail.NewOutputFilter(source)

	emotions, err := emotionservice.NewService(context.Background(), nil, emotionservice.Config{
		Weights: cfg.Emotion.Weights,
	})
	if err != nil {
		log.Fatalf("failed to initialize emotion service: %v", err)
	}

	svc := safety.NewService(validator, classifier, filter, emotions)

	if *text != "" {
		check(svc, *text, *filterMode, *asJSON)
		return
	}

	fmt.Fprintln(os.Stderr, "reading entries from stdin, one per line (ctrl-d to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		check(svc, line, *filterMode, *asJSON)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("stdin read failed: %v", err)
	}
}

func check(svc *safety.Service, text string, filterMode, asJSON bool) {
	if filterMode {
		result := svc.FilterOutput(text)
		if asJSON {
			printJSON(result)
			return
		}
		fmt.Printf("filtered: %s\n", result.Text)
		for _, redaction := range result.Redactions {
			fmt.Printf("  redacted %dx %s\n", redaction.Count, redaction.Category)
		}
		if result.DiagnosisSuppressed {
			fmt.Println("  diagnosis assertion suppressed")
		}
		return
	}

	outcome := svc.Process(context.Background(), text)
	if asJSON {
		printJSON(outcome)
		return
	}

	switch {
	case outcome.Crisis.Severity != guardrail.SeverityNone:
		fmt.Printf("CRISIS severity=%s template=%s\n", outcome.Crisis.Severity, outcome.Crisis.TemplateID)
	case !outcome.Validation.Accepted:
		fmt.Printf("REJECTED reason=%s guidance=%q\n", outcome.Validation.Reason, outcome.Validation.Guidance)
	default:
		score := outcome.Score
		fmt.Printf("ACCEPTED emotion=%s stress=%d display=%s degraded=%t\n",
			score.Primary, score.StressLevel, score.Display, score.Degraded)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("marshal failed: %v", err)
		return
	}
	fmt.Println(string(data))
}
