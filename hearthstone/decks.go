package hearthstone

// DeckClass はヒーロークラスの定義です。IDは固定の識別子で、
// Titleはユーザー向けの表示名です。
type DeckClass struct {
	ID    string
	Title string
}

// DeckClasses は選択可能な9クラスの静的カタログです。ビルド時に固定。
var DeckClasses = []DeckClass{
	{ID: "Druid", Title: "ドルイド"},
	{ID: "Mage", Title: "メイジ"},
	{ID: "Paladin", Title: "パラディン"},
	{ID: "Priest", Title: "プリースト"},
	{ID: "Rogue", Title: "ローグ"},
	{ID: "Shaman", Title: "シャーマン"},
	{ID: "Warlock", Title: "ウォーロック"},
	{ID: "Warrior", Title: "ウォリアー"},
	{ID: "Hunter", Title: "ハンター"},
}

// Find はIDでクラスを検索します。
func Find(id string) (DeckClass, bool) {
	for _, d := range DeckClasses {
		if d.ID == id {
			return d, true
		}
	}
	return DeckClass{}, false
}

// Contains は既知のクラスIDかどうかを返します。
func Contains(id string) bool {
	_, ok := Find(id)
	return ok
}

// Title はクラスIDの表示名を返します。未知のIDにはプレースホルダーを返します。
func Title(id string) string {
	if d, ok := Find(id); ok {
		return d.Title
	}
	return "＜不明なヒーロークラス＞"
}

// Titles はクラスID列を表示名列に変換します（順序維持）。
func Titles(ids []string) []string {
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		titles = append(titles, Title(id))
	}
	return titles
}

// Remaining は選択済みIDを除いた残りのクラスをカタログ順で返します。
func Remaining(selected []string) []DeckClass {
	picked := make(map[string]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}
	var rest []DeckClass
	for _, d := range DeckClasses {
		if !picked[d.ID] {
			rest = append(rest, d)
		}
	}
	return rest
}
