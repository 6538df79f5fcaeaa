package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	manager, err := Load("en")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"en", "ko"}, manager.Languages())

	ko := manager.Translator("KO")
	assert.Equal(t, "ko", ko.Lang())
	assert.Equal(t, "콜라", ko.T("product.cola"))
	assert.Equal(t, "잔액이 부족합니다.", ko.T("error.insufficient_funds"))

	en := manager.Translator("")
	assert.Equal(t, "en", en.Lang())
	assert.Equal(t, "Balance: 1500", Format(en, "display.money", 1500))
}

func TestTranslator_Fallback(t *testing.T) {
	fsys := fstest.MapFS{
		"loc/en.yaml": {Data: []byte("en:\n  greeting: hello\n  only_en: english\n")},
		"loc/ko.yml":  {Data: []byte("ko:\n  greeting: 안녕\n")},
		"loc/readme":  {Data: []byte("ignored")},
	}

	manager, err := LoadFS(fsys, "loc", "en")
	require.NoError(t, err)

	ko := manager.Translator("ko")
	assert.Equal(t, "안녕", ko.T("greeting"))
	assert.Equal(t, "english", ko.T("only_en"))
	assert.Equal(t, "missing.key", ko.T("missing.key"))
	assert.Equal(t, "en", manager.Translator("fr").Lang())
}

func TestLoadFS_Errors(t *testing.T) {
	testCases := []struct {
		name string
		fsys fstest.MapFS
		lang string
	}{
		{name: "missing dir", fsys: fstest.MapFS{}, lang: "en"},
		{name: "no yaml files", fsys: fstest.MapFS{"loc/a.txt": {Data: []byte("x")}}, lang: "en"},
		{name: "missing default language", fsys: fstest.MapFS{"loc/ko.yaml": {Data: []byte("ko:\n  a: b\n")}}, lang: "en"},
		{name: "broken yaml", fsys: fstest.MapFS{"loc/en.yaml": {Data: []byte("en: [")}}, lang: "en"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFS(tc.fsys, "loc", tc.lang)
			assert.Error(t, err)
		})
	}
}

func TestManager_Require(t *testing.T) {
	manager, err := Load("en")
	require.NoError(t, err)

	assert.NoError(t, manager.Require("display.money", "error.insufficient_stock", "product.fanta"))

	err = manager.Require("display.money", "display.unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "en:display.unknown")
	assert.Contains(t, err.Error(), "ko:display.unknown")

	var nilManager *Manager
	assert.Error(t, nilManager.Require("display.money"))
}

func TestFormat_NilTranslator(t *testing.T) {
	assert.Equal(t, "display.money", Format(nil, "display.money", 10))
}
