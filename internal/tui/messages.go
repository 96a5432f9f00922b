package tui

type openErrMsg struct {
	err error
}

type openedMsg struct {
	link string
}
