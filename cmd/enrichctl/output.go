package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/thinksmartgroup/Search-AI/internal/types"
)

// RecordsResult is the result of a records command.
type RecordsResult struct {
	Records []types.CallbackRecord `json:"records"`
	Total   int                    `json:"total"`
}

// ResolveResult is the result of a resolve command.
type ResolveResult struct {
	Outcome   string          `json:"outcome"`
	Candidate types.Candidate `json:"candidate"`
}

// DispatchResult is the result of a dispatch command.
type DispatchResult struct {
	Token string `json:"token"`
}

// doRequest is the function used to issue HTTP requests to the engine. It
// can be overridden in tests to inject a fake server response.
var doRequest = defaultDoRequest

func defaultDoRequest(method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("server answered %s: %s", resp.Status, bytes.TrimSpace(data))
	}
	return data, nil
}

// outputResult outputs the result in the specified format.
func outputResult(result interface{}, format string) error {
	switch format {
	case "json":
		return outputJSON(result)
	case "yaml":
		return outputYAML(result)
	default:
		return outputTable(result)
	}
}

func outputJSON(result interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputYAML(result interface{}) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputTable(result interface{}) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch r := result.(type) {
	case RecordsResult:
		return outputRecordsTable(w, r)
	case ResolveResult:
		return outputResolveTable(w, r)
	case DispatchResult:
		fmt.Fprintf(w, "TOKEN\t%s\n", r.Token)
		return nil
	case SearchResult:
		return outputSearchTable(w, r)
	default:
		// Fall back to JSON for unknown types
		return outputJSON(result)
	}
}

func outputRecordsTable(w *tabwriter.Writer, r RecordsResult) error {
	fmt.Fprintf(w, "TOTAL\t%d\n\n", r.Total)

	fmt.Fprintln(w, "#\tSTATUS\tTOKEN\tCOMPANY\tWEBSITE\tRECEIVED")
	for i, rec := range r.Records {
		company, website := "", ""
		if rec.Candidate != nil {
			company = rec.Candidate.CompanyName
			website = rec.Candidate.Website
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i, rec.Status, rec.Token, company, website,
			rec.ReceivedAt.Format(time.RFC3339))
	}

	return nil
}

func outputResolveTable(w *tabwriter.Writer, r ResolveResult) error {
	fmt.Fprintf(w, "OUTCOME\t%s\n", r.Outcome)
	fmt.Fprintf(w, "NAME\t%s\n", r.Candidate.FullName)
	fmt.Fprintf(w, "COMPANY\t%s\n", r.Candidate.CompanyName)
	fmt.Fprintf(w, "WEBSITE\t%s\n", r.Candidate.Website)
	if email := r.Candidate.Email(); email != "" {
		fmt.Fprintf(w, "EMAIL\t%s\n", email)
	}
	if phone := r.Candidate.Phone(); phone != "" {
		fmt.Fprintf(w, "PHONE\t%s\n", phone)
	}
	return nil
}
