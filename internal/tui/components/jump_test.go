package components

import (
	"testing"

	tuitest "github.com/evgengiga/dashbord/internal/tui/testing"
	"github.com/evgengiga/dashbord/internal/tui/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var titles = []string{"Конверсия", "Просроченные задачи", "Заказы клиентов", "Ожидают оплаты"}

func typeInto(m JumpModel, text string) JumpModel {
	for _, msg := range tuitest.Type(text) {
		m, _ = m.Update(msg)
	}
	return m
}

func TestJumpModel_Filter(t *testing.T) {
	m := NewJumpModel(titles, themes.Dark)
	assert.Equal(t, []int{0, 1, 2, 3}, m.Results())

	m = typeInto(m, "заказ")
	assert.Equal(t, "заказ", m.Query())
	require.NotEmpty(t, m.Results())
	assert.Equal(t, 2, m.Results()[0])

	m = typeInto(m, "xyz")
	assert.Empty(t, m.Results())
	assert.Contains(t, tuitest.StripANSI(m.View()), "Ничего не найдено")

	_, cmd := m.Update(tuitest.Key("enter"))
	assert.Nil(t, cmd, "enter without matches does nothing")
}

func TestJumpModel_Select(t *testing.T) {
	m := NewJumpModel(titles, themes.Dark)
	m, _ = m.Update(tuitest.Key("down"))
	m, _ = m.Update(tuitest.Key("down"))

	_, cmd := m.Update(tuitest.Key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, JumpSelectedMsg{Index: 2}, cmd())
}

func TestJumpModel_Cancel(t *testing.T) {
	m := NewJumpModel(titles, themes.Dark)
	_, cmd := m.Update(tuitest.Key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, JumpCanceledMsg{}, cmd())
}
