// Package console 交互式命令行菜单,与HTTP接口共用同一个应用服务
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	appbook "github.com/xiebiao/library/internal/application/book"
)

const (
	msgInvalidOption = "Invalid option!"
	msgInvalidID     = "Invalid Id format."
	msgNoBooks       = "No books found, try inserting one book"
	msgPause         = "Press any key to continue..."
)

// Menu 图书管理菜单
type Menu struct {
	service appbook.Service
	in      *bufio.Scanner
	out     io.Writer
}

// NewMenu 创建菜单,从in读取输入,向out输出
func NewMenu(service appbook.Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run 循环显示菜单直到选择退出、输入结束或ctx取消
// 每次操作后等待一次回车再显示菜单
// 输入结束(EOF)视为退出;只有ctx错误和读取错误会返回
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printMenu()
		option, ok := m.readLine()
		if !ok {
			return m.in.Err()
		}

		var err error
		switch option {
		case "1":
			err = m.addBook(ctx)
		case "2":
			err = m.listBooks(ctx)
		case "3":
			err = m.getBook(ctx)
		case "4":
			err = m.updateBook(ctx)
		case "5":
			err = m.deleteBook(ctx)
		case "6":
			return nil
		default:
			m.println(msgInvalidOption)
		}

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// 存储故障不退出菜单
			log.Ctx(ctx).Error().Err(err).Str("option", option).Msg("菜单操作失败")
			m.println("Unexpected error: " + err.Error())
		}

		m.println("\n" + msgPause)
		if _, ok := m.readLine(); !ok {
			return m.in.Err()
		}
	}
}

func (m *Menu) printMenu() {
	m.println("")
	m.println("=== Library Management ===")
	m.println("1 - Add book")
	m.println("2 - List books")
	m.println("3 - Get book by Id")
	m.println("4 - Update book")
	m.println("5 - Delete book")
	m.println("6 - Exit")
	m.print("\nOption: ")
}

func (m *Menu) addBook(ctx context.Context) error {
	title, _ := m.prompt("Title: ")
	author, _ := m.prompt("Author: ")
	isbn, _ := m.prompt("ISBN: ")

	res, err := m.service.Create(ctx, appbook.BookRequest{Title: title, Author: author, ISBN: isbn})
	if err != nil {
		return err
	}
	if !res.Success() {
		m.println("Error adding book: " + res.ErrorMessage())
		return nil
	}

	m.println("Book added successfully! Id: " + res.Value().ID)
	return nil
}

func (m *Menu) listBooks(ctx context.Context) error {
	res, err := m.service.List(ctx)
	if err != nil {
		return err
	}

	books := res.Value()
	if len(books) == 0 {
		m.println("\n" + msgNoBooks)
		return nil
	}
	m.println("\nBooks:")
	for _, b := range books {
		m.println(fmt.Sprintf("- %s by %s (ISBN: %s)", b.Title, b.Author, b.ISBN))
	}
	return nil
}

func (m *Menu) getBook(ctx context.Context) error {
	id, ok := m.promptID("Enter the Id of the book: ")
	if !ok {
		return nil
	}

	res, err := m.service.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !res.Success() {
		m.println("Error retrieving book: " + res.ErrorMessage())
		return nil
	}

	b := res.Value()
	m.println("\nBook details:")
	m.println("Id: " + b.ID)
	m.println("Title: " + b.Title)
	m.println("Author: " + b.Author)
	m.println("ISBN: " + b.ISBN)
	return nil
}

func (m *Menu) updateBook(ctx context.Context) error {
	id, ok := m.promptID("Enter the Id of the book to update: ")
	if !ok {
		return nil
	}

	current, err := m.service.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.Success() {
		m.println(current.ErrorMessage())
		return nil
	}
	b := current.Value()

	title := m.promptKeep("Title", b.Title)
	author := m.promptKeep("Author", b.Author)
	isbn := m.promptKeep("ISBN", b.ISBN)

	res, err := m.service.Update(ctx, appbook.BookRequest{ID: id, Title: title, Author: author, ISBN: isbn})
	if err != nil {
		return err
	}
	if !res.Success() {
		m.println("Error updating book: " + res.ErrorMessage())
		return nil
	}

	m.println(fmt.Sprintf("Book updated successfully: %s by %s", res.Value().Title, res.Value().Author))
	return nil
}

func (m *Menu) deleteBook(ctx context.Context) error {
	id, ok := m.promptID("Enter the Id of the book to delete: ")
	if !ok {
		return nil
	}

	res, err := m.service.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !res.Success() {
		m.println("Error deleting book: " + res.ErrorMessage())
		return nil
	}

	m.println("Book deleted successfully.")
	return nil
}

// promptID 读取并校验UUID,格式错误时输出提示
func (m *Menu) promptID(label string) (string, bool) {
	raw, _ := m.prompt(label)
	id, err := uuid.Parse(raw)
	if err != nil {
		m.println(msgInvalidID)
		return "", false
	}
	return id.String(), true
}

// promptKeep 显示当前值,空输入沿用
func (m *Menu) promptKeep(field, current string) string {
	m.println(fmt.Sprintf("Current %s: %s", field, current))
	answer, _ := m.prompt(fmt.Sprintf("New %s (leave empty to keep): ", field))
	if answer == "" {
		return current
	}
	return answer
}

func (m *Menu) prompt(label string) (string, bool) {
	m.print(label)
	return m.readLine()
}

func (m *Menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) print(s string) {
	_, _ = io.WriteString(m.out, s)
}

func (m *Menu) println(s string) {
	_, _ = io.WriteString(m.out, s+"\n")
}
