// Command loginform serves a minimal login page for exercising authdrill
// against a known-good target. A successful login redirects to /welcome,
// which carries a #dashboard element usable as a success selector.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"html/template"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"
)

var loginPage = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head><title>Sign in</title></head>
<body>
  <h1>Sign in</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="post" action="/login">
    <input name="username" type="text" placeholder="Username">
    <input name="password" type="password" placeholder="Password">
    <button type="submit">Sign in</button>
  </form>
</body>
</html>`))

var welcomePage = template.Must(template.New("welcome").Parse(`<!doctype html>
<html>
<head><title>Welcome</title></head>
<body>
  <div id="dashboard">
    <h1>Welcome, {{.Username}}</h1>
  </div>
</body>
</html>`))

type server struct {
	users    map[string]string
	minDelay time.Duration
	maxDelay time.Duration
	failRate float64
}

func main() {
	port := flag.Int("port", 8080, "Listening port")
	credFile := flag.String("credentials", "", "CSV file of accepted username,password pairs")
	minDelay := flag.Duration("min-delay", 0, "Minimum artificial latency per login")
	maxDelay := flag.Duration("max-delay", 0, "Maximum artificial latency per login")
	failRate := flag.Float64("fail-rate", 0, "Fraction of valid logins to reject anyway (0..1)")
	flag.Parse()

	srv := &server{
		users:    map[string]string{"admin": "admin"},
		minDelay: *minDelay,
		maxDelay: *maxDelay,
		failRate: *failRate,
	}
	if *credFile != "" {
		users, err := loadUsers(*credFile)
		if err != nil {
			log.Fatalf("load credentials: %v", err)
		}
		srv.users = users
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", srv.handleLogin)
	mux.HandleFunc("/welcome", srv.handleWelcome)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("login form listening on %s (%d accounts)", addr, len(srv.users))
	log.Fatal(http.ListenAndServe(addr, mux))
}

func loadUsers(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	users := make(map[string]string, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		// Skip a header row if present.
		if i == 0 && strings.EqualFold(row[0], "username") {
			continue
		}
		users[row[0]] = row[1]
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no accounts in %s", path)
	}
	return users, nil
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		_ = loginPage.Execute(w, nil)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.sleep()

	username := r.FormValue("username")
	password := r.FormValue("password")
	if want, ok := s.users[username]; !ok || want != password {
		w.WriteHeader(http.StatusUnauthorized)
		_ = loginPage.Execute(w, map[string]string{"Error": "Invalid username or password"})
		return
	}
	if s.failRate > 0 && rand.Float64() < s.failRate {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = loginPage.Execute(w, map[string]string{"Error": "Service temporarily unavailable"})
		return
	}

	http.SetCookie(w, &http.Cookie{Name: "session", Value: username, Path: "/"})
	http.Redirect(w, r, "/welcome", http.StatusFound)
}

func (s *server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session")
	if err != nil || cookie.Value == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	_ = welcomePage.Execute(w, map[string]string{"Username": cookie.Value})
}

func (s *server) sleep() {
	if s.maxDelay <= 0 {
		return
	}
	d := s.minDelay
	if s.maxDelay > s.minDelay {
		d += time.Duration(rand.Int63n(int64(s.maxDelay - s.minDelay)))
	}
	time.Sleep(d)
}
