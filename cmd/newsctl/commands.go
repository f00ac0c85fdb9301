package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/essentialtimes/newsroom/client"
)

type cmdEnv struct {
	api *client.Client
	out io.Writer
}

type command struct {
	name  string
	usage string
	help  string
	run   func(ctx context.Context, env *cmdEnv, args []string) error
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

var commands []command

func init() {
	commands = []command{
		{"login", "<email> <password>", "sign in and cache the session", cmdLogin},
		{"logout", "", "forget the cached session", cmdLogout},
		{"whoami", "", "show the signed-in account", cmdWhoami},
		{"register", "<email> <password> <name> [reporter]", "create an account", cmdRegister},
		{"list", "[-page N] [-limit N] [-category slug]", "list published articles", cmdList},
		{"show", "<id>", "print one published article", cmdShow},
		{"categories", "", "list categories", cmdCategories},
		{"create", "-title T -content C [-category ID] [-image FILE]", "publish an article", cmdCreate},
		{"update", "<id> [-title T] [-content C] [-category ID|none] [-image FILE]", "edit an article", cmdUpdate},
		{"delete", "<id>", "delete an article", cmdDelete},
		{"mine", "", "list your articles", cmdMine},
		{"admin-articles", "", "list every article (admin)", cmdAdminArticles},
		{"category-add", "<name> <slug> <order>", "create a category (admin)", cmdCategoryAdd},
		{"category-edit", "<id> <name> <slug> <order>", "update a category (admin)", cmdCategoryEdit},
		{"category-rm", "<id>", "delete a category (admin)", cmdCategoryRemove},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError{fmt.Sprintf("invalid id %q", s)}
	}
	return id, nil
}

func loadImage(path string) (*client.Image, error) {
	if path == "" {
		return nil, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &client.Image{Filename: filepath.Base(path), Body: body}, nil
}

func subFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func cmdLogin(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) != 2 {
		return usageError{"login takes an email and a password"}
	}
	s, err := env.api.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%s (%s) 로그인되었습니다.\n", s.User.Name, s.User.Role)
	return nil
}

func cmdLogout(_ context.Context, env *cmdEnv, _ []string) error {
	if err := env.api.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "로그아웃되었습니다.")
	return nil
}

func cmdWhoami(_ context.Context, env *cmdEnv, _ []string) error {
	s, err := env.api.Session()
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Fprintln(env.out, "로그인되어 있지 않습니다.")
		return nil
	}
	fmt.Fprintf(env.out, "%s <%s> %s\n", s.User.Name, s.User.Email, s.User.Role)
	return nil
}

func cmdRegister(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return usageError{"register takes an email, a password and a name"}
	}
	r := client.Registration{Email: args[0], Password: args[1], Name: args[2]}
	if len(args) == 4 {
		r.Role = args[3]
	}
	u, err := env.api.Register(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "회원가입이 완료되었습니다: %s (%s)\n", u.Email, u.Role)
	return nil
}

func cmdList(ctx context.Context, env *cmdEnv, args []string) error {
	fs := subFlags("list")
	page := fs.Int("page", 1, "")
	limit := fs.Int("limit", 10, "")
	category := fs.String("category", "", "")
	if err := fs.Parse(args); err != nil {
		return usageError{err.Error()}
	}

	var (
		result *client.ArticlePage
		err    error
	)
	if *category != "" {
		result, err = env.api.CategoryArticles(ctx, *category, *page, *limit)
	} else {
		result, err = env.api.Articles(ctx, *page, *limit)
	}
	if err != nil {
		return err
	}
	return client.RenderArticleList(env.out, *result)
}

func cmdShow(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) != 1 {
		return usageError{"show takes an article id"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := env.api.Article(ctx, id)
	if err != nil {
		return err
	}
	return client.RenderArticle(env.out, *a)
}

func cmdCategories(ctx context.Context, env *cmdEnv, _ []string) error {
	cats, err := env.api.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		fmt.Fprintf(env.out, "%3d  %-12s %s (%d)\n", c.ID, c.Slug, c.Name, c.DisplayOrder)
	}
	return nil
}

func cmdCreate(ctx context.Context, env *cmdEnv, args []string) error {
	fs := subFlags("create")
	title := fs.String("title", "", "")
	content := fs.String("content", "", "")
	category := fs.Int64("category", 0, "")
	image := fs.String("image", "", "")
	if err := fs.Parse(args); err != nil {
		return usageError{err.Error()}
	}
	if *title == "" || *content == "" {
		return usageError{"제목과 내용을 모두 입력해주세요."}
	}
	img, err := loadImage(*image)
	if err != nil {
		return err
	}
	a, err := env.api.CreateArticle(ctx, client.NewArticle{Title: *title, Content: *content, CategoryID: *category, Image: img})
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "기사가 등록되었습니다: [%d] %s\n", a.ID, a.Title)
	return nil
}

func cmdUpdate(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) < 1 {
		return usageError{"update takes an article id"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fs := subFlags("update")
	title := fs.String("title", "", "")
	content := fs.String("content", "", "")
	category := fs.String("category", "", "")
	image := fs.String("image", "", "")
	if err := fs.Parse(args[1:]); err != nil {
		return usageError{err.Error()}
	}

	changes := client.ArticleChanges{Title: *title, Content: *content}
	switch *category {
	case "":
	case "none":
		changes.ClearCategory = true
	default:
		if changes.CategoryID, err = parseID(*category); err != nil {
			return err
		}
	}
	if changes.Image, err = loadImage(*image); err != nil {
		return err
	}

	a, err := env.api.UpdateArticle(ctx, id, changes)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "기사가 수정되었습니다: [%d] %s\n", a.ID, a.Title)
	return nil
}

func cmdDelete(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) != 1 {
		return usageError{"delete takes an article id"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := env.api.DeleteArticle(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "기사가 삭제되었습니다.")
	return nil
}

func cmdMine(ctx context.Context, env *cmdEnv, _ []string) error {
	page, err := env.api.MyArticles(ctx)
	if err != nil {
		return err
	}
	return client.RenderArticleList(env.out, *page)
}

func cmdAdminArticles(ctx context.Context, env *cmdEnv, _ []string) error {
	page, err := env.api.AdminArticles(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(env.out)
	enc.SetIndent("", "  ")
	return enc.Encode(page.Articles)
}

func categoryInput(args []string) (client.CategoryInput, error) {
	order, err := strconv.Atoi(args[2])
	if err != nil {
		return client.CategoryInput{}, usageError{fmt.Sprintf("invalid display order %q", args[2])}
	}
	return client.CategoryInput{Name: args[0], Slug: args[1], DisplayOrder: order}, nil
}

func cmdCategoryAdd(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) != 3 {
		return usageError{"category-add takes a name, a slug and an order"}
	}
	in, err := categoryInput(args)
	if err != nil {
		return err
	}
	c, err := env.api.CreateCategory(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "카테고리가 추가되었습니다: [%d] %s\n", c.ID, c.Name)
	return nil
}

func cmdCategoryEdit(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) != 4 {
		return usageError{"category-edit takes an id, a name, a slug and an order"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	in, err := categoryInput(args[1:])
	if err != nil {
		return err
	}
	c, err := env.api.UpdateCategory(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "카테고리가 수정되었습니다: [%d] %s\n", c.ID, c.Name)
	return nil
}

func cmdCategoryRemove(ctx context.Context, env *cmdEnv, args []string) error {
	if len(args) != 1 {
		return usageError{"category-rm takes a category id"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := env.api.DeleteCategory(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "카테고리가 삭제되었습니다.")
	return nil
}
