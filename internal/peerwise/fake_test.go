package peerwise

import (
	"botwise/internal/components/telemetry"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

const sessionCookie = "PHPSESSID"

// fakePlatform mimics the parts of PeerWise the client talks to, every status
// can be changed to simulate a deviation.
type fakePlatform struct {
	loginPageStatus int
	loginStatus     int
	loginLocation   string
	homeStatus      int
	courseStatus    int

	viewStatus     int
	viewLocation   string
	viewBody       string
	submitStatus   int
	submitLocation string
	submitBody     string

	mutex      sync.Mutex
	loginForm  url.Values
	answerForm url.Values
	viewQuery  url.Values

	loginPageAt time.Time
	loginPostAt time.Time
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		loginPageStatus: http.StatusOK,
		loginStatus:     http.StatusFound,
		loginLocation:   "../home/",
		homeStatus:      http.StatusOK,
		courseStatus:    http.StatusOK,
		viewStatus:      http.StatusOK,
		viewBody:        questionPage,
		submitStatus:    http.StatusOK,
		submitBody:      correctPage,
	}
}

func respond(w http.ResponseWriter, status int, location, body string) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (f *fakePlatform) loggedIn(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	return err == nil && cookie.Value == "authenticated"
}

func (f *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	switch {
	case r.URL.Path == "/at/" && r.Method == http.MethodGet:
		f.loginPageAt = time.Now()
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "anonymous", Path: "/"})
		respond(w, f.loginPageStatus, "", "<html><form></form></html>")
	case r.URL.Path == "/at/" && r.Method == http.MethodPost:
		f.loginPostAt = time.Now()
		r.ParseForm()
		f.loginForm = r.PostForm
		if f.loginStatus == http.StatusFound && f.loginLocation == "../home/" {
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "authenticated", Path: "/"})
		}
		respond(w, f.loginStatus, f.loginLocation, "")
	case r.URL.Path == "/home/":
		if !f.loggedIn(r) {
			respond(w, http.StatusFound, "../at/", "")
			return
		}
		respond(w, f.homeStatus, "", "<html>home</html>")
	case r.URL.Path == "/course/main.php" && r.URL.Query().Get("course_id") != "":
		respond(w, f.courseStatus, "", "<html>course</html>")
	case r.URL.Path == "/course/main.php" && r.Method == http.MethodGet:
		f.viewQuery = r.URL.Query()
		respond(w, f.viewStatus, f.viewLocation, f.viewBody)
	case r.URL.Path == "/course/main.php" && r.Method == http.MethodPost:
		r.ParseForm()
		f.answerForm = r.PostForm
		respond(w, f.submitStatus, f.submitLocation, f.submitBody)
	default:
		respond(w, http.StatusNotFound, "", "")
	}
}

func setupClient(t testing.TB, platform *fakePlatform) (*Client, *telemetry.Recorder) {
	t.Helper()

	server := httptest.NewServer(platform)
	t.Cleanup(server.Close)

	endpoints, err := NewEndpoints(server.URL, "uoa", "12345")
	if err != nil {
		t.Fatal(err)
	}
	rec := &telemetry.Recorder{}
	client, err := NewClient(ClientOptions{
		Endpoints: endpoints,
		Credentials: Credentials{
			User:        "alice",
			Pass:        "hunter2",
			Institution: "uoa",
		},
	}, rec)
	if err != nil {
		t.Fatal(err)
	}
	return client, rec
}

const questionPage = `<html><body>
<div id="questionDisplay">
	<p>Which data structure
	gives O(1)   average lookup?</p>
</div>
<form><input type="radio" name="answer" value="A"></form>
</body></html>`

const correctPage = `<html><body><table>
<tr><td class="displayOption">A</td><td>Linked list</td></tr>
<tr><td class="displayCircleAndHighlightOption">B</td><td>Hash table</td></tr>
</table></body></html>`

const incorrectPage = `<html><body><table>
<tr><td class="displayCircleOption">A</td><td>Linked list</td></tr>
<tr><td class="displayHighlightOption">
	B
</td><td>Hash table</td></tr>
</table></body></html>`

const unknownPage = `<html><body><table>
<tr><td class="displayCircleOption">A</td><td>Linked list</td></tr>
<tr><td class="displayOption">B</td><td>Hash table</td></tr>
</table></body></html>`
