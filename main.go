package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"membrain/assistant"
	"membrain/config"
	"membrain/model"
	"membrain/reference"
	"membrain/registry"
	"membrain/storage"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	store, err := storage.NewKVStore(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	creds := config.NewCredentialStore(config.SecurityEncrypted)
	if err := creds.Load(cfg.DataDir()); err != nil {
		fmt.Printf("Failed to load credentials: %v\n", err)
		os.Exit(1)
	}

	reg := registry.New(store, creds)
	if err := reg.Load(); err != nil {
		fmt.Printf("Failed to load model registry: %v\n", err)
		os.Exit(1)
	}

	refs := reference.NewStore(store, newEnvPageSource())
	if err := refs.Load(); err != nil {
		fmt.Printf("Failed to load references: %v\n", err)
		os.Exit(1)
	}

	session := assistant.NewSession(store, reg, refs, cfg.UILanguage, cfg.ChatLanguage)
	if err := session.Load(); err != nil {
		fmt.Printf("Failed to load chat history: %v\n", err)
		os.Exit(1)
	}

	if err := runChatLoop(session, reg, refs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runChatLoop is a minimal line-oriented host for the session: plain lines
// become chat tasks, slash commands drive the rest.
func runChatLoop(session *assistant.Session, reg *registry.Registry, refs *reference.Store) error {
	ctx := context.Background()

	done := make(chan struct{}, 1)
	unsubscribe := session.Subscribe(newStreamPrinter(session, done))
	defer unsubscribe()

	fmt.Printf("membrain %s (type /help for commands)\n", Version)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(ctx, session, reg, refs, line); quit {
				return nil
			}
			continue
		}

		if err := submitAndWait(ctx, session, model.NewChatTask(line, model.RefScopeAll), done); err != nil {
			fmt.Println(err)
		}
	}
}

func runCommand(ctx context.Context, session *assistant.Session, reg *registry.Registry, refs *reference.Store, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Println("/models        list enabled models")
		fmt.Println("/model <id>    select the current model")
		fmt.Println("/refs          list references")
		fmt.Println("/addpage       add the current page as a reference")
		fmt.Println("/clear         clear the conversation")
		fmt.Println("/clearall      clear conversation and references")
		fmt.Println("/quit          exit")

	case "/models":
		for _, mp := range reg.EnabledModels() {
			marker := " "
			if current := reg.CurrentModel(); current != nil && current.Model.ID == mp.Model.ID {
				marker = "*"
			}
			fmt.Printf("%s %s  %s (%s)\n", marker, mp.Model.ID, mp.Model.Name, mp.Provider.Name)
		}

	case "/model":
		if err := reg.SetCurrentModel(strings.TrimSpace(arg)); err != nil {
			fmt.Println(err)
		}

	case "/refs":
		for _, r := range refs.List() {
			fmt.Printf("%s  %s\n", r.ID(), r.Title)
		}

	case "/addpage":
		if ref := refs.AddPageRef(ctx); ref == nil {
			fmt.Println("fail to get content of current page")
		} else {
			fmt.Printf("added %s\n", ref.ID())
		}

	case "/clear":
		session.ClearSession()

	case "/clearall":
		session.ClearAll()

	default:
		fmt.Printf("unknown command: %s\n", cmd)
	}
	return false
}

func submitAndWait(ctx context.Context, session *assistant.Session, task *model.ChatTask, done chan struct{}) error {
	// Drop any signal left over from an earlier task.
	select {
	case <-done:
	default:
	}
	if err := session.Submit(ctx, task); err != nil {
		return err
	}
	if session.Status() == model.ChatStatusProcessing {
		<-done
	}
	if status := session.Status(); status != model.ChatStatusEmpty {
		return fmt.Errorf("chat failed: %s", status)
	}
	return nil
}

// newStreamPrinter returns a session listener that prints assistant text as
// it streams and signals done on each return to idle.
func newStreamPrinter(session *assistant.Session, done chan struct{}) func() {
	var mu sync.Mutex
	var printed int
	streaming := false

	return func() {
		mu.Lock()
		defer mu.Unlock()

		status := session.Status()
		history := session.History()

		if status == model.ChatStatusProcessing {
			if !streaming {
				streaming = true
				printed = 0
			}
			if n := len(history); n > 0 && history[n-1].Role == model.RoleAssistant {
				content := history[n-1].Content
				if len(content) > printed {
					fmt.Print(content[printed:])
					printed = len(content)
				}
			}
			return
		}

		if streaming {
			streaming = false
			if n := len(history); n > 0 && history[n-1].Role == model.RoleAssistant {
				content := history[n-1].Content
				if len(content) > printed {
					fmt.Print(content[printed:])
				}
			}
			fmt.Println()
			select {
			case done <- struct{}{}:
			default:
			}
		}
	}
}

// envPageSource is the CLI stand-in for the browser's extraction context: the
// page snapshot comes from a file named by MEMBRAIN_PAGE_FILE (first line is
// the title, the rest is content, the file path doubles as the URL unless
// MEMBRAIN_PAGE_URL is set) and the selection from MEMBRAIN_SELECTION.
type envPageSource struct{}

func newEnvPageSource() *envPageSource {
	return &envPageSource{}
}

func (p *envPageSource) CurrentPage(ctx context.Context) (*model.Reference, error) {
	path := os.Getenv("MEMBRAIN_PAGE_FILE")
	if path == "" {
		return nil, fmt.Errorf("no page available: MEMBRAIN_PAGE_FILE not set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page file: %w", err)
	}
	title, content, _ := strings.Cut(string(data), "\n")
	pageURL := os.Getenv("MEMBRAIN_PAGE_URL")
	if pageURL == "" {
		pageURL = "file://" + path
	}
	ref := model.NewPageReference(strings.TrimSpace(title), pageURL, strings.TrimSpace(content))
	return &ref, nil
}

func (p *envPageSource) CurrentSelection(ctx context.Context) (string, error) {
	selection := os.Getenv("MEMBRAIN_SELECTION")
	if selection == "" {
		return "", fmt.Errorf("no selection available: MEMBRAIN_SELECTION not set")
	}
	return selection, nil
}
