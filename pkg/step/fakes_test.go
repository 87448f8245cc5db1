package step

import (
	"errors"
	"sync"
)

type fakePage struct {
	mu    sync.Mutex
	shots []string
}

func (p *fakePage) Screenshot(path string, _ bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shots = append(p.shots, path)
	return nil
}

type fakeVideoPage struct {
	fakePage
	path string
	err  error
}

func (p *fakeVideoPage) VideoPath() (string, error) {
	return p.path, p.err
}

type fakeShooter struct {
	calls []string
	err   error
}

func (s *fakeShooter) TakeStep(page Page, step, test string) (string, error) {
	s.calls = append(s.calls, test+"|"+step)
	if s.err != nil {
		return "", s.err
	}
	path := "shots/" + test + "_" + step + ".png"
	return path, page.Screenshot(path, true)
}

type fakeVideos struct {
	names []string
	err   error
}

func (v *fakeVideos) SaveWithTestName(_ VideoPage, name string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	v.names = append(v.names, name)
	return "videos/" + name + ".mp4", nil
}

var errStep = errors.New("element not found")
